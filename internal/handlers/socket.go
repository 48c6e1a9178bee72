package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"github.com/araf-Mahmud-2004/NearNest/pkg/utils"
)

var SocketServer *socketio.Server

// Per-socket change-feed teardown functions, keyed by socket id.
var (
	socketSubs   = make(map[string][]func())
	socketSubsMu sync.Mutex
)

func addSocketSub(socketID string, unsubscribe func()) {
	socketSubsMu.Lock()
	socketSubs[socketID] = append(socketSubs[socketID], unsubscribe)
	socketSubsMu.Unlock()
}

func dropSocketSubs(socketID string) {
	socketSubsMu.Lock()
	subs := socketSubs[socketID]
	delete(socketSubs, socketID)
	socketSubsMu.Unlock()
	for _, unsubscribe := range subs {
		unsubscribe()
	}
}

// relay forwards change-feed events for one channel into the user's personal
// room under the given socket event name.
func relay(server *socketio.Server, socketID, room, channelKey, eventName string, filter realtime.FilterFunc) {
	if realtime.Default == nil {
		return
	}
	unsubscribe, err := realtime.Default.Subscribe(channelKey, filter, func(ev realtime.Event) {
		var payload interface{}
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			payload = string(ev.Payload)
		}
		server.BroadcastToRoom("/", room, eventName, map[string]interface{}{
			"kind":      ev.Kind,
			"change":    ev.Change,
			"payload":   payload,
			"timestamp": ev.Timestamp,
		})
	})
	if err != nil {
		logger.Warn().Err(err).Str("channel", channelKey).Msg("Socket relay subscription failed")
		return
	}
	addSocketSub(socketID, unsubscribe)
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		url := s.URL()

		token := url.Query().Get("token")
		if token == "" {
			token = url.Query().Get("auth_token")
		}
		if token == "" {
			logger.Warn().Str("socket_id", s.ID()).Msg("Socket connection rejected: no token")
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			logger.Warn().Str("socket_id", s.ID()).Msg("Socket connection rejected: invalid token")
			return fmt.Errorf("invalid token")
		}

		userId := claims.UserID
		s.SetContext(userId)
		s.Join(userId)

		// Bridge the user's personal change-feed channels into their room.
		relay(server, s.ID(), userId, realtime.MessagesChannel(userId), "message", nil)
		relay(server, s.ID(), userId, realtime.ConversationsChannel(userId), "conversation", nil)
		relay(server, s.ID(), userId, realtime.NotificationsChannel(userId), "notification", nil)
		relay(server, s.ID(), userId, realtime.InteractionsChannel(userId), "interaction", nil)

		logger.Info().Str("socket_id", s.ID()).Str("user_id", userId).Msg("Socket authenticated")
		return nil
	})

	// Dashboard clients watch interactions on the posts they own. The feed is
	// shared; each subscriber narrows it to their own post ids.
	server.OnEvent("/", "watch_posts", func(s socketio.Conn, postIDs []string) {
		userId, _ := s.Context().(string)
		if userId == "" || len(postIDs) == 0 {
			return
		}
		relay(server, s.ID(), userId, realtime.PostInteractionsChannel, "post_interaction",
			realtime.PostIDFilter(postIDs))
	})

	// Browse pages can opt into the public catalog feeds.
	server.OnEvent("/", "watch_listings", func(s socketio.Conn, msg string) {
		userId, _ := s.Context().(string)
		if userId == "" {
			return
		}
		relay(server, s.ID(), userId, realtime.ListingsChannel, "listing_update", nil)
	})

	server.OnEvent("/", "watch_events", func(s socketio.Conn, msg string) {
		userId, _ := s.Context().(string)
		if userId == "" {
			return
		}
		relay(server, s.ID(), userId, realtime.EventsChannel, "event_update", nil)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		dropSocketSubs(s.ID())
		logger.Debug().Str("socket_id", s.ID()).Str("reason", reason).Msg("Socket closed")
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
		dropSocketSubs(s.ID())
	})

	go server.Serve()
	SocketServer = server
	return server
}

// SocketHandler wraps the socket.io server for gin.
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
