// Package notify carries the page message protocol: control messages from
// pages to the agent and broadcasts from the agent to every connected page.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	syncmgr "github.com/iudanet/courtside/internal/client/sync"
	"github.com/iudanet/courtside/internal/validation"
	"github.com/iudanet/courtside/pkg/api"
)

const (
	writeTimeout    = 5 * time.Second
	broadcastBuffer = 64
	maxControlBody  = 64 << 10
)

// ErrInvalidMessage indicates a malformed control message or an unsupported type
var ErrInvalidMessage = errors.New("invalid control message")

//go:generate moq -out controller_mock.go . Controller

// Controller executes the control messages sent by pages
type Controller interface {
	ActivateVersion(ctx context.Context, version string) error
	ClearAll(ctx context.Context) error
}

type client struct {
	conn *websocket.Conn
	id   string
}

// Hub manages websocket pages and broadcasts messages to all of them
type Hub struct {
	controller Controller
	logger     *slog.Logger
	clients    map[string]*client
	broadcast  chan api.Message
	done       chan struct{}
	clientsMu  sync.RWMutex
	closeOnce  sync.Once
}

// NewHub creates a hub. Run must be started to deliver broadcasts.
func NewHub(controller Controller, logger *slog.Logger) *Hub {
	return &Hub{
		controller: controller,
		logger:     logger,
		clients:    make(map[string]*client),
		broadcast:  make(chan api.Message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run delivers broadcasts until ctx is done, then disconnects every page
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.broadcast:
			h.deliver(ctx, msg)
		}
	}
}

func (h *Hub) shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.clientsMu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.clientsMu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "agent shutting down")
	}
}

// Broadcast queues msg for every connected page. A full buffer drops the message.
func (h *Hub) Broadcast(msg api.Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast buffer full, message dropped", "type", msg.Type)
	}
}

func (h *Hub) deliver(ctx context.Context, msg api.Message) {
	h.clientsMu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	// Запись вне блокировки, чтобы медленная страница не держала остальных
	for _, c := range clients {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(writeCtx, c.conn, msg)
		cancel()

		if err != nil {
			h.logger.Debug("Failed to send to page", "client_id", c.id, "error", err)
			h.removeClient(c)
		}
	}
}

func (h *Hub) send(typ string, data any) {
	msg, err := api.NewMessage(typ, data)
	if err != nil {
		h.logger.Error("Failed to build message", "type", typ, "error", err)
		return
	}
	h.Broadcast(msg)
}

// SyncCycleStarting tells every page that a drain started without a user action
func (h *Hub) SyncCycleStarting(trigger syncmgr.Trigger) {
	h.send(api.MessageSyncCycleStarting, api.SyncCycleStartingData{Trigger: string(trigger)})
}

// SyncCycleFinished broadcasts the result of a drain cycle
func (h *Hub) SyncCycleFinished(result *api.SyncResult) {
	h.send(api.MessageSyncCycleFinished, result)
}

// HandleMessage executes one control message and returns the reply.
// Successful control messages are also broadcast to every page.
func (h *Hub) HandleMessage(ctx context.Context, msg api.Message) (api.Message, error) {
	var (
		reply api.Message
		err   error
	)

	switch msg.Type {
	case api.MessageActivateVersion:
		var data api.ActivateVersionData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return api.Message{}, fmt.Errorf("%w: %s data: %w", ErrInvalidMessage, msg.Type, err)
			}
		}
		if err := validation.ValidateCacheVersion(data.Version); err != nil {
			return api.Message{}, fmt.Errorf("%w: %s: %w", ErrInvalidMessage, msg.Type, err)
		}
		if err := h.controller.ActivateVersion(ctx, data.Version); err != nil {
			return api.Message{}, err
		}
		reply, err = api.NewMessage(api.MessageVersionActivated, data)

	case api.MessageClearCaches:
		if err := h.controller.ClearAll(ctx); err != nil {
			return api.Message{}, err
		}
		reply, err = api.NewMessage(api.MessageCachesCleared, nil)

	default:
		return api.Message{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type)
	}

	if err != nil {
		return api.Message{}, err
	}

	h.logger.Info("Control message handled", "type", msg.Type)
	h.Broadcast(reply)
	return reply, nil
}

// ServeWS upgrades the request and keeps the page connected until it leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.New().String(), conn: conn}

	select {
	case <-h.done:
		_ = conn.Close(websocket.StatusGoingAway, "agent shutting down")
		return
	default:
	}

	h.clientsMu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.logger.Debug("Page connected", "client_id", c.id, "clients", count)
	defer h.removeClient(c)

	h.readLoop(r.Context(), c)
}

// readLoop обрабатывает управляющие сообщения страницы
func (h *Hub) readLoop(ctx context.Context, c *client) {
	for {
		var msg api.Message
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				h.logger.Debug("Page read failed", "client_id", c.id, "error", err)
			}
			return
		}

		reply, err := h.HandleMessage(ctx, msg)
		if err != nil {
			reply = errorMessage(err)
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			werr := wsjson.Write(writeCtx, c.conn, reply)
			cancel()
			if werr != nil {
				return
			}
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	count := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug("Page disconnected", "client_id", c.id, "clients", count)
	}
}

// ServeControl accepts the same envelope over plain HTTP POST
func (h *Hub) ServeControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorMessage(fmt.Errorf("method %s not allowed", r.Method)))
		return
	}

	var msg api.Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxControlBody)).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage(fmt.Errorf("%w: %w", ErrInvalidMessage, err)))
		return
	}

	reply, err := h.HandleMessage(r.Context(), msg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidMessage) {
			status = http.StatusBadRequest
		}
		h.logger.Warn("Control message failed", "type", msg.Type, "error", err)
		writeJSON(w, status, errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// ClientCount returns the number of connected pages
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func errorMessage(err error) api.Message {
	msg, _ := api.NewMessage(api.MessageError, api.ErrorData{Message: err.Error()})
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
