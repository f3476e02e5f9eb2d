package services

import "time"

// Event - сообщение, которое уходит пользователю по WebSocket
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

// Notifier доставляет события онлайн-пользователям. Реализация - ws.Hub.
type Notifier interface {
	NotifyUser(userID string, event Event)
}

// NoopNotifier используется, когда хаб не поднят (воркеры, тесты)
type NoopNotifier struct{}

func (NoopNotifier) NotifyUser(string, Event) {}
