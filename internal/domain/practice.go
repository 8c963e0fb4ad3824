package domain

import "time"

// Passage es un texto o audio de práctica con sus preguntas asociadas.
type Passage struct {
	ID        string             `json:"id"`
	Skill     string             `json:"skill"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	AudioURL  *string            `json:"audioUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	Questions []PracticeQuestion `json:"questions"`
}

// PracticeQuestion es una pregunta de práctica, ligada o no a un passage.
type PracticeQuestion struct {
	ID        string    `json:"id"`
	PassageID *string   `json:"passageId,omitempty"`
	Skill     string    `json:"skill"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options,omitempty"`
	Answer    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
