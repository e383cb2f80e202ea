package services

import (
	"context"
	"database/sql"

	"github.com/avilam/mensajeria-be/internal/database"
	"github.com/avilam/mensajeria-be/internal/models"
)

// MessageServiceProvider defines the interface for messaging services.
type MessageServiceProvider interface {
	SendMessage(ctx context.Context, senderID, recipientID int64, text, image *string) (int64, error)
	GetConversation(ctx context.Context, user1ID, user2ID int64) ([]models.ConversationMessage, error)
}

// MessageService provides business logic for direct messaging.
type MessageService struct {
	gateway *database.Gateway
}

const conversationQuery = "SELECT m.user_id, u.username, m.message, m.image, m.timestamp " +
	"FROM messages m JOIN users u ON m.user_id = u.id " +
	"WHERE (m.user_id = $1 AND m.recipient_id = $2) OR (m.user_id = $3 AND m.recipient_id = $4) " +
	"ORDER BY m.timestamp ASC"

// NewMessageService creates a new MessageService.
func NewMessageService(gateway *database.Gateway) *MessageService {
	return &MessageService{gateway: gateway}
}

// SendMessage inserts a message row, with or without an image reference, and
// reports the affected row count. The insert timestamp is the ordering key.
func (s *MessageService) SendMessage(ctx context.Context, senderID, recipientID int64, text, image *string) (int64, error) {
	var affected int64
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		var result sql.Result
		var err error
		if image != nil {
			result, err = conn.ExecContext(ctx,
				"INSERT INTO messages (user_id, message, recipient_id, image) VALUES ($1, $2, $3, $4)",
				senderID, text, recipientID, image)
		} else {
			result, err = conn.ExecContext(ctx,
				"INSERT INTO messages (user_id, message, recipient_id) VALUES ($1, $2, $3)",
				senderID, text, recipientID)
		}
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// GetConversation returns every message exchanged between two users in either
// direction, ascending by timestamp, each joined with the sender's username.
func (s *MessageService) GetConversation(ctx context.Context, user1ID, user2ID int64) ([]models.ConversationMessage, error) {
	messages := []models.ConversationMessage{}
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, conversationQuery,
			user1ID, user2ID, user2ID, user1ID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var m models.ConversationMessage
			if err := rows.Scan(&m.UserID, &m.Username, &m.Message, &m.Image, &m.Timestamp); err != nil {
				return err
			}
			messages = append(messages, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
