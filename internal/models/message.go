package models

import "time"

// Message represents a direct message between two users. Message text and
// image reference are both optional at the row level.
type Message struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	RecipientID int64     `json:"recipient_id"`
	Message     *string   `json:"message"`
	Image       *string   `json:"image,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationMessage is a message row joined with the sender's username,
// as returned by the conversation history endpoint.
type ConversationMessage struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Message   *string   `json:"message"`
	Image     *string   `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
