package models

import (
	"strings"
	"time"
)

// KnowledgeEntry is a question/answer pair of the assistant knowledge base
type KnowledgeEntry struct {
	ID        int64     `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Matches reports whether query occurs in the question or the answer,
// ignoring letter case.
func (k *KnowledgeEntry) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(k.Question), q) ||
		strings.Contains(strings.ToLower(k.Answer), q)
}
