package models

import "time"

const (
	DefaultCreditUnitPrice  int64 = 100 // 1€ за кредит, в центах
	DefaultCreditLabel            = "Acheter des crédits (1€ / crédit)"
	DefaultBoostCost              = 5
	DefaultBoostDurationHrs       = 24

	GlobalConfigID = "global"
)

// CreditConfig - одна строка с id "global"
type CreditConfig struct {
	ID        string    `gorm:"primaryKey" json:"-"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BoostConfig: ArtisanID == nil - глобальная строка, иначе персональная
type BoostConfig struct {
	BaseModel
	ArtisanID     *string `gorm:"type:uuid;index" json:"artisan_id,omitempty"`
	Cost          int     `gorm:"not null" json:"cost"`
	Enabled       bool    `json:"enabled"`
	DurationHours int     `gorm:"not null" json:"duration_hours"`
}

type Payment struct {
	BaseModel
	UserID          string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind            PaymentKind   `gorm:"type:varchar(20);not null" json:"kind"`
	PackCode        string        `json:"pack_code,omitempty"`
	Credits         int           `json:"credits"`
	AmountCents     int64         `gorm:"not null" json:"amount_cents"`
	Currency        string        `gorm:"type:varchar(3);not null" json:"currency"`
	StripeSessionID string        `gorm:"uniqueIndex;not null" json:"session_id"`
	CheckoutURL     string        `json:"checkout_url,omitempty"`
	Status          PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	MatchID         *string       `gorm:"type:uuid" json:"match_id,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
}

// UnlimitedCreditsMarker - так пак "illimité" показывается клиенту
const UnlimitedCreditsMarker = 999999

type SubscriptionPack struct {
	Code         string   `json:"pack"`
	Name         string   `json:"name"`
	Credits      int      `json:"credits"`
	PriceCents   int64    `json:"price_cents"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Popular      bool     `json:"popular"`
	Features     []string `json:"features"`
}

func (p SubscriptionPack) IsUnlimited() bool {
	return p.Credits == UnlimitedCreditsMarker
}

var SubscriptionPacks = []SubscriptionPack{
	{
		Code: "starter", Name: "Starter", Credits: 10, PriceCents: 999, Price: 9.99,
		Features: []string{"10 likes", "Accès aux projets de votre zone"},
	},
	{
		Code: "pro", Name: "Pro", Credits: 50, PriceCents: 3999, Price: 39.99, Popular: true,
		Features: []string{"50 likes", "Badge professionnel", "Support prioritaire"},
	},
	{
		Code: "unlimited", Name: "Illimité", Credits: UnlimitedCreditsMarker, PriceCents: 9999, Price: 99.99, DurationDays: 30,
		Features: []string{"Likes illimités pendant 30 jours", "Boost mensuel inclus"},
	},
}

func FindPack(code string) (SubscriptionPack, bool) {
	for _, p := range SubscriptionPacks {
		if p.Code == code {
			return p, true
		}
	}
	return SubscriptionPack{}, false
}
