package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const saveTimeout = 10 * time.Second

// ErrStopped is returned by Join once the hub has shut down.
var ErrStopped = errors.New("session hub stopped")

// Hub tracks the connected clients, autosaves their sessions and saves
// everything on shutdown.
type Hub struct {
	load     Loader
	save     Saver
	interval time.Duration

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
}

// NewHub creates a hub. A non-positive interval disables autosave.
func NewHub(load Loader, save Saver, interval time.Duration) *Hub {
	return &Hub{
		load:       load,
		save:       save,
		interval:   interval,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	var tick <-chan time.Time
	if h.interval > 0 {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			slog.Info("client joined", "user", client.UserID, "drawing", client.session.DrawingID())
		case client := <-h.unregister:
			if !h.clients[client] {
				continue
			}
			delete(h.clients, client)
			close(client.send)
			h.saveSession(client.session)
			slog.Info("client left", "user", client.UserID, "drawing", client.session.DrawingID())
		case <-tick:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop saves every modified session and ends Run.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Open creates a session for drawingID, loading its content unless it is the
// playground.
func (h *Hub) Open(ctx context.Context, drawingID string) (*Session, error) {
	if drawingID == PlaygroundDrawingID {
		return NewSession(drawingID, nil, nil)
	}
	records, err := h.load(ctx, drawingID)
	if err != nil {
		return nil, fmt.Errorf("load drawing %s: %w", drawingID, err)
	}
	s, err := NewSession(drawingID, records, h.save)
	if err != nil {
		return nil, fmt.Errorf("open drawing %s: %w", drawingID, err)
	}
	return s, nil
}

// Join opens a session for the connection and registers its client. The
// caller runs the client's pumps.
func (h *Hub) Join(ctx context.Context, conn *websocket.Conn, drawingID, userID string) (*Client, error) {
	s, err := h.Open(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		session:  s,
		send:     make(chan []byte, 256),
		UserID:   userID,
		ClientID: uuid.New().String(),
	}

	select {
	case h.register <- client:
	case <-h.stop:
		return nil, ErrStopped
	}

	client.Send(newMessage(TypeWelcome, 0, WelcomePayload{
		ClientID:  client.ClientID,
		DrawingID: drawingID,
		Persisted: s.Persisted(),
	}))
	for _, msg := range s.Snapshot() {
		client.Send(msg)
	}
	return client, nil
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) saveAll() {
	for c := range h.clients {
		h.saveSession(c.session)
	}
}

func (h *Hub) saveSession(s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	version, err := s.SaveIfModified(ctx)
	if err != nil {
		slog.Error("autosave failed", "drawing", s.DrawingID(), "error", err)
		return
	}
	if version > 0 {
		slog.Info("drawing saved", "drawing", s.DrawingID(), "version", version)
	}
}
