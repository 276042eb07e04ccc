package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alanyang/promptdeck/internal/port/presenter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ThemeMessage is pushed to clients when theme variables change.
type ThemeMessage struct {
	Type      string            `json:"type"`
	Variables map[string]string `json:"variables"`
}

const TypeThemeVariables = "theme_variables"

// Hub tracks presentation clients. It implements port/presenter.Presenter:
// each connected client is a document to style.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	// writeMu serializes writes; a websocket connection allows one writer.
	writeMu sync.Mutex

	greeting func() any
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// SetGreeting sets the message every new client receives on connect.
func (h *Hub) SetGreeting(fn func() any) {
	h.mu.Lock()
	h.greeting = fn
	h.mu.Unlock()
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	greeting := h.greeting
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	if greeting != nil {
		if data, err := json.Marshal(greeting()); err == nil {
			h.writeMu.Lock()
			err = conn.WriteMessage(websocket.TextMessage, data)
			h.writeMu.Unlock()
			if err != nil {
				slog.Error("websocket greeting failed", "error", err)
			}
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	failed := 0
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Error("websocket write failed", "error", err)
			failed++
		}
	}
	return failed
}

// Apply sends every variable to every client in one message. With no client
// connected it returns presenter.ErrNoDocument.
func (h *Hub) Apply(_ context.Context, vars map[string]string) error {
	if h.Clients() == 0 {
		return presenter.ErrNoDocument
	}
	data, err := json.Marshal(ThemeMessage{Type: TypeThemeVariables, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshaling theme variables: %w", err)
	}
	if failed := h.broadcast(data); failed > 0 {
		return fmt.Errorf("theme variables not delivered to %d client(s)", failed)
	}
	return nil
}
