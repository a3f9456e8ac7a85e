package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/moim/moim-api/internal/domain/match"
	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
	"github.com/moim/moim-api/internal/pkg/validator"
)

// WebSocket constants
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Handler handles chat HTTP requests
type Handler struct {
	service     *Service
	hub         *Hub
	rateLimiter *RateLimiter
	upgrader    websocket.Upgrader
}

// RateLimiter throttles message sends per user
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  30,          // 30 messages
		window: time.Minute, // per minute
	}
}

// Allow checks if user can send a message
func (rl *RateLimiter) Allow(userID uuid.UUID) bool {
	if rl.redis == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:chat:%s", userID)
	ctx := context.Background()

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return true // fail open
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	return count <= int64(rl.limit)
}

// NewHandler creates chat handler
func NewHandler(service *Service, hub *Hub, redisClient *redis.Client, allowedOrigins []string) *Handler {
	return &Handler{
		service:     service,
		hub:         hub,
		rateLimiter: NewRateLimiter(redisClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// ListMessages handles GET /matches/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid match ID")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	var before time.Time
	if b := r.URL.Query().Get("before"); b != "" {
		before, err = time.Parse(time.RFC3339, b)
		if err != nil {
			response.BadRequest(w, "Invalid before cursor, want RFC3339")
			return
		}
	}

	actor := middleware.GetActor(r.Context())
	messages, err := h.service.List(r.Context(), actor, matchID, before, limit)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			response.NotFound(w, "Match not found")
		} else {
			response.InternalError(w)
		}
		return
	}
	if messages == nil {
		messages = []*Message{}
	}

	response.OK(w, messages)
}

// SendMessage handles POST /matches/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid match ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	if !h.rateLimiter.Allow(actor.UserID) {
		response.Error(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many messages, please slow down")
		return
	}

	var req SendMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := h.service.Send(r.Context(), actor, matchID, &req)
	if err != nil {
		switch {
		case errors.Is(err, match.ErrNotFound):
			response.NotFound(w, "Match not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Only a participant may message this match")
		case errors.Is(err, policy.ErrConflict):
			response.Conflict(w, "match_closed", "This conversation is closed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, msg)
}

// WebSocket handles WS /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	if actor.IsGuest() {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: actor.UserID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	// Subscribe to the user's active match threads
	matchIDs, _ := h.service.ActiveMatchIDs(r.Context(), actor.UserID)
	for _, id := range matchIDs {
		h.hub.SubscribeToMatch(id, actor.UserID)
	}

	go h.wsReader(client)
	go h.wsWriter(client)
}

func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID.String()).Msg("WebSocket read error")
			}
			break
		}

		if !h.rateLimiter.Allow(client.UserID) {
			continue
		}

		var event struct {
			Type    string    `json:"type"`
			MatchID uuid.UUID `json:"match_id"`
			UserID  uuid.UUID `json:"user_id"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		switch event.Type {
		case "typing":
			// Typing indicators go only to subscribed participants
			if h.hub.IsUserSubscribed(event.MatchID, client.UserID) {
				h.hub.BroadcastToMatch(event.MatchID, &WSEvent{
					Type:     EventTyping,
					MatchID:  event.MatchID,
					SenderID: client.UserID,
				})
			}

		case "presence":
			// Presence is disclosed only between a match's two participants
			m, err := h.service.matches.GetByID(context.Background(), event.MatchID)
			if err != nil || m == nil || !m.HasParticipant(client.UserID) || !m.HasParticipant(event.UserID) {
				continue
			}
			online := h.hub.IsOnline(event.UserID)
			reply, err := json.Marshal(&WSEvent{
				Type:     EventPresence,
				MatchID:  event.MatchID,
				SenderID: event.UserID,
				Online:   &online,
			})
			if err != nil {
				continue
			}
			select {
			case client.Send <- reply:
			default:
			}
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
