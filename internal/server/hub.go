package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskboard/backend/internal/model"
)

type wsClient struct {
	conn    *websocket.Conn
	project string
	board   string
	mu      sync.Mutex
}

// wants filters events against the client's subscription. A board filter
// only passes events that carry that board's id, so it narrows the stream
// to layout changes (board, column, and reorder events).
func (c *wsClient) wants(event model.Event) bool {
	if c.project != "" && c.project != event.Project {
		return false
	}
	if c.board != "" && c.board != event.BoardID {
		return false
	}
	return true
}

type hub struct {
	upgrader   websocket.Upgrader
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan model.Event
	done       chan struct{}
	clients    map[*wsClient]struct{}
}

func newHub() *hub {
	h := &hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan model.Event, 128),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
	}
	go h.run()
	return h
}

func (h *hub) Close() {
	close(h.done)
}

// ServeWS upgrades the connection and subscribes it. An optional project
// query param limits the stream to one project's events; an optional board
// param narrows it further to that board's layout events.
func (h *hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		conn:    conn,
		project: r.URL.Query().Get("project"),
		board:   r.URL.Query().Get("board"),
	}
	h.register <- client

	go func() {
		defer func() { h.unregister <- client }()
		for {
			if _, _, err := client.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *hub) Publish(event model.Event) {
	select {
	case h.broadcast <- event:
	default:
		// Drop when saturated to avoid blocking request flow.
	}
}

func (h *hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				_ = client.conn.Close()
			}
		case event := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(event) {
					continue
				}
				client.mu.Lock()
				_ = client.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
				err := client.conn.WriteJSON(event)
				client.mu.Unlock()
				if err != nil {
					delete(h.clients, client)
					_ = client.conn.Close()
				}
			}
		case <-h.done:
			for client := range h.clients {
				_ = client.conn.Close()
			}
			return
		}
	}
}
