package domain

import "time"

// Vocabulary es una palabra guardada por un usuario durante la práctica.
type Vocabulary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Word      string    `json:"word"`
	Source    string    `json:"source"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
