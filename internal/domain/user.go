package domain

import "time"

// User representa una cuenta registrada de la aplicación.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	TargetScore     *float64   `json:"targetScore,omitempty"`
	TestDate        *time.Time `json:"testDate,omitempty"`
	HasPreviousTest bool       `json:"hasPreviousTest"`
	LastTestScore   *float64   `json:"lastTestScore,omitempty"`
	Level           int        `json:"level"`
	XP              int        `json:"xp"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
