package domain

import "time"

// OTPCode es un código de un solo uso ligado a un email.
// El registro más reciente por email es el único que cuenta para verificar.
type OTPCode struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Code       string     `json:"-"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastSentAt *time.Time `json:"lastSentAt,omitempty"`
	ConsumedAt *time.Time `json:"-"`
}

// Consumed indica si el código ya fue canjeado.
func (o OTPCode) Consumed() bool {
	return o.ConsumedAt != nil
}

// Expired indica si el código venció respecto a now.
func (o OTPCode) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
