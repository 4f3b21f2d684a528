package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"notedash-server/internal/domain"
	"notedash-server/internal/middleware"
	"notedash-server/internal/service"
	"notedash-server/internal/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	validator middleware.TokenValidator
	upgrader  ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, validator middleware.TokenValidator, readBufferSize, writeBufferSize int) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		validator: validator,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.BearerToken(r)
	}

	if token == "" {
		log.Printf("[WebSocket] Missing authorization token")
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.ValidateAccessToken(r.Context(), token)
	if err != nil {
		log.Printf("[WebSocket] Token validation failed: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Failed to upgrade connection: %v", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.manager)

	if !h.manager.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// WebSocketMessageHandler runs one note feed per client and forwards its
// snapshots.
type WebSocketMessageHandler struct {
	manager  *websocket.Manager
	feed     *service.FeedService
	validate *validator.Validate
}

func NewWebSocketMessageHandler(manager *websocket.Manager, feed *service.FeedService) *WebSocketMessageHandler {
	return &WebSocketMessageHandler{
		manager:  manager,
		feed:     feed,
		validate: validator.New(),
	}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeSubscribe:
		return h.handleSubscribe(client, msg)

	case websocket.TypeUnsubscribe:
		client.StopSubscription()
		return nil

	case websocket.TypePing:
		return h.send(client, websocket.TypePong, nil)

	default:
		return h.sendError(client, "unknown message type: "+string(msg.Type))
	}
}

func (h *WebSocketMessageHandler) handleSubscribe(client *websocket.Client, msg *websocket.Message) error {
	var payload websocket.SubscribePayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return h.sendError(client, "invalid subscribe payload")
	}

	opts := domain.ListOptions{
		SortBy:    domain.SortField(payload.SortBy),
		Direction: domain.SortDirection(payload.Direction),
		Query:     payload.Query,
	}
	if err := h.validate.Struct(opts); err != nil {
		return h.sendError(client, err.Error())
	}

	ctx := client.StartSubscription()
	go h.forward(ctx, client, opts)
	return nil
}

// forward opens the feed off the hub goroutine, since the store may block
// while the change feed is established.
func (h *WebSocketMessageHandler) forward(ctx context.Context, client *websocket.Client, opts domain.ListOptions) {
	snapshots, err := h.feed.Subscribe(ctx, client.UserID, opts)
	if err != nil {
		log.Printf("[WebSocket] Subscribe failed for client %s: %v", client.ID, err)
		if ctx.Err() == nil {
			h.sendError(client, "failed to subscribe")
		}
		return
	}

	for snapshot := range snapshots {
		if err := h.send(client, websocket.TypeSnapshot, snapshot); err != nil {
			log.Printf("[WebSocket] Dropped snapshot for client %s: %v", client.ID, err)
		}
	}
}

func (h *WebSocketMessageHandler) sendError(client *websocket.Client, message string) error {
	return h.send(client, websocket.TypeError, &websocket.ErrorPayload{Message: strings.TrimSpace(message)})
}

func (h *WebSocketMessageHandler) send(client *websocket.Client, msgType websocket.MessageType, payload interface{}) error {
	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	if err := h.manager.SendToClient(client.ID, msg); err != nil {
		if errors.Is(err, websocket.ErrSendBufferFull) {
			log.Printf("[WebSocket] Send buffer full for client %s", client.ID)
		}
		return err
	}
	return nil
}
