package models

import "time"

// User is a registered account. Email is stored lowercased.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date"`
}
