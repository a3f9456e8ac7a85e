package chat

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventNewMessage   EventType = "new_message"
	EventTyping       EventType = "typing"
	EventPresence     EventType = "presence"
	EventMatchEnded   EventType = "match_ended"
	EventMatchBlocked EventType = "match_blocked"
)

// Redis key prefixes
const (
	matchChannelPrefix = "chat:match:"
	presenceKey        = "chat:presence:online"
	presenceChannel    = "chat:presence"
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// WSEvent represents a WebSocket event
type WSEvent struct {
	Type     EventType `json:"type"`
	MatchID  uuid.UUID `json:"match_id,omitempty"`
	SenderID uuid.UUID `json:"sender_id,omitempty"`
	Message  *Message  `json:"message,omitempty"`
	Online   *bool     `json:"online,omitempty"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans events out to WebSocket clients. Each server instance holds
// its own connections; Redis Pub/Sub carries match events across
// instances, so broadcasting reaches participants wherever they landed.
type Hub struct {
	// Local connections (this server instance only)
	connections map[uuid.UUID]map[*Connection]bool

	// Local match subscriptions: matchID -> set of userIDs on this server
	localMatches map[uuid.UUID]map[uuid.UUID]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new WebSocket hub. A nil Redis client degrades to
// single-instance local broadcasting.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections:  make(map[uuid.UUID]map[*Connection]bool),
		localMatches: make(map[uuid.UUID]map[uuid.UUID]bool),
		redis:        redisClient,
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		ctx:          ctx,
		cancel:       cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, matchChannelPrefix+"*", presenceChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)

			h.publishPresence(conn.UserID, true)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to WebSocket")

		case conn := <-h.unregister:
			shouldPublishOffline := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					shouldPublishOffline = true
				}

				for matchID, users := range h.localMatches {
					delete(users, conn.UserID)
					if len(users) == 0 {
						delete(h.localMatches, matchID)
					}
				}
			}
			h.mu.Unlock()

			if shouldPublishOffline {
				h.publishPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from WebSocket")
		}
	}
}

// runRedisSubscriber listens for events from Redis Pub/Sub
func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			if strings.HasPrefix(msg.Channel, matchChannelPrefix) {
				matchID, err := uuid.Parse(msg.Channel[len(matchChannelPrefix):])
				if err != nil {
					continue
				}

				var event WSEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}

				h.broadcastLocal(matchID, &event)
			}

			if msg.Channel == presenceChannel {
				log.Debug().Str("presence", msg.Payload).Msg("Presence update received")
			}
		}
	}
}

// broadcastLocal sends event to clients connected to THIS server
func (h *Hub) broadcastLocal(matchID uuid.UUID, event *WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.localMatches[matchID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	for userID := range users {
		if conns, ok := h.connections[userID]; ok {
			for conn := range conns {
				select {
				case conn.Send <- data:
					wsEventsSentTotal.Add(1)
				default:
					// Buffer full, skip this event
					wsEventsDroppedTotal.Add(1)
					log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
				}
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SubscribeToMatch adds the user's local subscription to a match thread
func (h *Hub) SubscribeToMatch(matchID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localMatches[matchID] == nil {
		h.localMatches[matchID] = make(map[uuid.UUID]bool)
	}
	h.localMatches[matchID][userID] = true
}

// UnsubscribeFromMatch removes the user's local subscription
func (h *Hub) UnsubscribeFromMatch(matchID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localMatches[matchID] != nil {
		delete(h.localMatches[matchID], userID)
		if len(h.localMatches[matchID]) == 0 {
			delete(h.localMatches, matchID)
		}
	}
}

// BroadcastToMatch sends event to both participants across all servers
func (h *Hub) BroadcastToMatch(matchID uuid.UUID, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	if h.redis != nil {
		channel := matchChannelPrefix + matchID.String()
		if err := h.redis.Publish(h.ctx, channel, data).Err(); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Redis publish failed")
			// Fall back to local broadcast
			h.broadcastLocal(matchID, event)
		}
		return
	}

	h.broadcastLocal(matchID, event)
}

// NotifyMatchEnded tells both participants the conversation closed
func (h *Hub) NotifyMatchEnded(matchID uuid.UUID) {
	h.BroadcastToMatch(matchID, &WSEvent{Type: EventMatchEnded, MatchID: matchID})
}

// NotifyMatchBlocked tells both participants a block shut the thread
func (h *Hub) NotifyMatchBlocked(matchID uuid.UUID) {
	h.BroadcastToMatch(matchID, &WSEvent{Type: EventMatchBlocked, MatchID: matchID})
}

// publishPresence publishes user online/offline status to Redis
func (h *Hub) publishPresence(userID uuid.UUID, online bool) {
	if h.redis == nil {
		return
	}

	ctx := context.Background()

	if online {
		h.redis.SAdd(ctx, presenceKey, userID.String())
		h.redis.Expire(ctx, presenceKey, 5*time.Minute)
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:online", userID))
	} else {
		h.redis.SRem(ctx, presenceKey, userID.String())
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:offline", userID))
	}
}

// IsOnline checks if user is online (across all servers)
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	if h.redis == nil {
		h.mu.RLock()
		conns, ok := h.connections[userID]
		h.mu.RUnlock()
		return ok && len(conns) > 0
	}

	return h.redis.SIsMember(context.Background(), presenceKey, userID.String()).Val()
}

// IsUserSubscribed reports whether user is subscribed locally to a match
func (h *Hub) IsUserSubscribed(matchID, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := h.localMatches[matchID]
	if users == nil {
		return false
	}
	return users[userID]
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
