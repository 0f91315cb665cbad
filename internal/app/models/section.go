package models

import "time"

// Section is an academic category that groups files for students
type Section struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Name        string    `json:"name" db:"name" example:"CS101"`
	Icon        string    `json:"icon" db:"icon" example:"💻"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
