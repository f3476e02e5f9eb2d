// Package ws держит WebSocket-соединения пользователей и доставляет им
// события сервисов.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"
	"swipetonpro_backend/internal/services"
)

// Hub - одно соединение на пользователя, новое вытесняет старое.
// register/unregister обрабатывает только горутина Run.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

var _ services.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
				metrics.WebsocketConnections.Dec()
				logger.Debug("ws connection replaced", "user_id", client.userID)
			}
			h.clients[client.userID] = client
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketConnections.Inc()
			logger.Info("ws client registered", "user_id", client.userID, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			// вытесненный клиент уже закрыт при регистрации нового
			if current, ok := h.clients[client.userID]; ok && current == client {
				close(client.send)
				delete(h.clients, client.userID)
				metrics.WebsocketConnections.Dec()
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.userID, "total", total)
		}
	}
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
		metrics.WebsocketConnections.Dec()
	}
}

// NotifyUser отправляет событие, если пользователь онлайн.
// Клиент с переполненным буфером отключается.
func (h *Hub) NotifyUser(userID string, event services.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal ws event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[userID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	select {
	case client.send <- payload:
		h.mu.RUnlock()
	default:
		h.mu.RUnlock()
		logger.Warn("ws send buffer full, dropping client", "user_id", userID)
		go h.remove(client)
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
