package dto

import "time"

type PurchasePackRequest struct {
	Pack string `json:"pack" validate:"required,oneof=starter pro unlimited"`
}

type PurchaseCreditsRequest struct {
	Credits int `json:"credits" validate:"required,min=1,max=1000"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type SubscriptionStatusResponse struct {
	CurrentCredits      int        `json:"current_credits"`
	SubscriptionPack    string     `json:"subscription_pack,omitempty"`
	SubscriptionExpires *time.Time `json:"subscription_expires,omitempty"`
	Unlimited           bool       `json:"unlimited"`
}

type PaymentStatusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	Credits   int    `json:"credits,omitempty"`
	Applied   bool   `json:"applied"`
}

type CreditConfigRequest struct {
	UnitPrice int64  `json:"unit_price" validate:"required,min=1,max=100000"`
	Label     string `json:"label" validate:"omitempty,max=200"`
}

type BoostConfigRequest struct {
	ArtisanID     *string `json:"artisan_id" validate:"omitempty,max=64"`
	Cost          int     `json:"cost" validate:"gte=0,lte=1000"`
	Enabled       bool    `json:"enabled"`
	DurationHours int     `json:"duration_hours" validate:"required,min=1,max=720"`
}
