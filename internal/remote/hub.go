package remote

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const autosaveTimeout = 15 * time.Second

// Hub tracks live connections and saves their work when they leave.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	saves      sync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	n := len(h.clients)
	h.mu.Unlock()

	slog.Info("client connected", "client", client.ClientID, "project", client.ProjectID, "user", client.UserID, "clients", n)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	client.closeSend()
	h.mu.Unlock()

	slog.Info("client disconnected", "client", client.ClientID, "project", client.ProjectID)

	h.saves.Add(1)
	go func() {
		defer h.saves.Done()
		h.autosave(client)
	}()
}

// autosave persists a session that still has unsaved edits.
func (h *Hub) autosave(client *Client) {
	s := client.session
	s.WaitUploads()
	if !s.State().Dirty {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	if err := s.Save(ctx); err != nil {
		slog.Error("autosave failed", "client", client.ClientID, "project", client.ProjectID, "error", err)
		return
	}
	slog.Info("autosaved", "client", client.ClientID, "project", client.ProjectID)
}

// Stop ends the Run loop and saves every connected session that is
// dirty. It waits for pending autosaves or until ctx is done.
func (h *Hub) Stop(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
		h.saves.Add(1)
		go func() {
			defer h.saves.Done()
			h.autosave(c)
		}()
	}

	finished := make(chan struct{})
	go func() {
		h.saves.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		slog.Warn("hub stopped before all sessions were saved")
	}
}
