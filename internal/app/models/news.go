package models

import "time"

// News is an announcement shown to students, newest first
type News struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at"`
}
