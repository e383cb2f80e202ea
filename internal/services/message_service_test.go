package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilam/mensajeria-be/internal/database"
)

func newMessageService(t *testing.T) (*MessageService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMessageService(database.NewGateway(db, 5*time.Second)), mock
}

func strPtr(s string) *string { return &s }

func TestSendMessageWithoutImage(t *testing.T) {
	svc, mock := newMessageService(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages (user_id, message, recipient_id) VALUES ($1, $2, $3)")).
		WithArgs(int64(1), "hi", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := svc.SendMessage(context.Background(), 1, 2, strPtr("hi"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageWithImage(t *testing.T) {
	svc, mock := newMessageService(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages (user_id, message, recipient_id, image) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(1), "look", int64(2), "abc123.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := svc.SendMessage(context.Background(), 1, 2, strPtr("look"), strPtr("abc123.png"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageNilText(t *testing.T) {
	svc, mock := newMessageService(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages (user_id, message, recipient_id, image) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(1), nil, int64(2), "abc123.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := svc.SendMessage(context.Background(), 1, 2, nil, strPtr("abc123.png"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConversationBothDirections(t *testing.T) {
	svc, mock := newMessageService(t)

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(conversationQuery)).
		WithArgs(int64(1), int64(2), int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "message", "image", "timestamp"}).
			AddRow(1, "alice", "hi", nil, t0).
			AddRow(2, "bob", "hello", nil, t0.Add(time.Minute)).
			AddRow(1, "alice", nil, "photo.png", t0.Add(2*time.Minute)))

	messages, err := svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "alice", messages[0].Username)
	assert.Equal(t, "hi", *messages[0].Message)
	assert.Nil(t, messages[0].Image)

	assert.Equal(t, int64(2), messages[1].UserID)

	assert.Nil(t, messages[2].Message)
	assert.Equal(t, "photo.png", *messages[2].Image)

	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].Timestamp.Before(messages[i-1].Timestamp),
			"rows must be ordered by timestamp")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConversationEmpty(t *testing.T) {
	svc, mock := newMessageService(t)

	mock.ExpectQuery(regexp.QuoteMeta(conversationQuery)).
		WithArgs(int64(5), int64(6), int64(6), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "message", "image", "timestamp"}))

	messages, err := svc.GetConversation(context.Background(), 5, 6)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
	require.NoError(t, mock.ExpectationsWereMet())
}
