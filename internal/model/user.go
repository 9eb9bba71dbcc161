package model

import "time"

// User mirrors the 'users' table. Users authenticate by email; the email is
// stored lowercased. PasswordHash is a bcrypt digest and must never be
// serialized out.
type User struct {
	ID           uint64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
