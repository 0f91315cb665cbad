package models

import (
	"time"
)

// User is an administrator or a student account
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	FullName     string    `json:"fullName" db:"full_name" example:"Ada Lovelace"`
	UniversityID string    `json:"universityId" db:"university_id" example:"20231234"`
	Password     string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role         Role      `json:"role" db:"role" example:"student"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
