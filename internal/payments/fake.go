package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeGateway держит сессии в памяти. Используется в тестах и когда
// ключ Stripe не задан в development.
type FakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession
	requests []CheckoutRequest
	seq      int
	// Err, если задан, возвращается из CreateCheckoutSession
	Err error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{sessions: make(map[string]*CheckoutSession)}
}

func (f *FakeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	f.seq++
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	id := fmt.Sprintf("cs_test_%d", f.seq)
	s := &CheckoutSession{
		ID:          id,
		URL:         "https://checkout.stripe.test/" + id,
		Status:      SessionOpen,
		AmountTotal: req.UnitAmount * quantity,
		Metadata:    req.Metadata,
	}
	f.sessions[id] = s
	f.requests = append(f.requests, req)

	copied := *s
	return &copied, nil
}

func (f *FakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

// SetStatus имитирует оплату или истечение сессии
func (f *FakeGateway) SetStatus(sessionID string, status SessionStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		s.Status = status
	}
}

func (f *FakeGateway) Requests() []CheckoutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CheckoutRequest(nil), f.requests...)
}
