package domain

import "time"

// UserActivity registra un resultado de práctica o test de un usuario.
type UserActivity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Type         string         `json:"type"`
	PracticeType string         `json:"practiceType"`
	Score        float64        `json:"score"`
	Band         float64        `json:"band"`
	XPEarned     int            `json:"xpEarned"`
	TimeSpent    *int           `json:"timeSpent,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
