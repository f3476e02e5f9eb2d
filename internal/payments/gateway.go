// Package payments прячет Stripe Checkout за узким интерфейсом Gateway.
package payments

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("checkout session not found")

type SessionStatus string

const (
	SessionOpen    SessionStatus = "open"
	SessionPaid    SessionStatus = "paid"
	SessionExpired SessionStatus = "expired"
)

type CheckoutRequest struct {
	UserID      string
	Email       string
	ProductName string
	// UnitAmount в центах, итог = UnitAmount * Quantity
	UnitAmount int64
	Quantity   int64
	Currency   string
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID          string
	URL         string
	Status      SessionStatus
	AmountTotal int64
	Metadata    map[string]string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
