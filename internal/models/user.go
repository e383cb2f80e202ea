package models

import "time"

// User represents a user account in the system.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never exposed to the client
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the public id+username shape returned by list and fetch.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
