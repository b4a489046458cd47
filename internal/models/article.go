// Package models defines core data structures for articles, conversations, and API requests.
package models

import "time"

// UnknownMaddeNumber is the identifier assigned to an article whose header
// does not match the structured "MADDE <n> - (<sub>)" pattern.
const UnknownMaddeNumber = "?"

// Article is a single "madde" (numbered article) extracted from a regulation
// document. Articles are immutable once created: the segmenter produces them
// and the indices retrieve them by value.
type Article struct {
	ID          string    `json:"id" db:"id"`
	Content     string    `json:"content" db:"content"`
	Source      string    `json:"source" db:"source"`
	MaddeNumber string    `json:"madde_number" db:"madde_number"`
	Embedding   []float32 `json:"-" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
