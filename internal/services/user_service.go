package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/avilam/mensajeria-be/internal/auth"
	"github.com/avilam/mensajeria-be/internal/database"
	"github.com/avilam/mensajeria-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	GetUser(ctx context.Context, id int64) (models.UserSummary, error)
	CreateUser(ctx context.Context, username, password, email string) (int64, error)
	UpdateUser(ctx context.Context, id int64, username, password string) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
}

// UserService provides business logic for user management.
type UserService struct {
	gateway *database.Gateway
	tokens  *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(gateway *database.Gateway, tokens *auth.TokenManager) *UserService {
	return &UserService{gateway: gateway, tokens: tokens}
}

// ListUsers retrieves the id and username of every user.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT id, username FROM users")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.UserSummary
			if err := rows.Scan(&u.ID, &u.Username); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser retrieves a single user by their ID. Returns ErrNotFound on a miss.
func (s *UserService) GetUser(ctx context.Context, id int64) (models.UserSummary, error) {
	var user models.UserSummary
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, "SELECT id, username FROM users WHERE id = $1", id)
		if err := row.Scan(&user.ID, &user.Username); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.UserSummary{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password. A uniqueness
// violation on username or email surfaces as ErrDuplicate.
func (s *UserService) CreateUser(ctx context.Context, username, password, email string) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var id int64
	err = s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			"INSERT INTO users (username, password, email) VALUES ($1, $2, $3) RETURNING id",
			username, string(hashedPassword), email)
		if err := row.Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateUser overwrites the username and password columns of a user.
// The password is stored exactly as given: unlike CreateUser this path does
// not hash, so callers wanting a digest at rest must hash before calling.
func (s *UserService) UpdateUser(ctx context.Context, id int64, username, password string) (int64, error) {
	var affected int64
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			"UPDATE users SET username = $1, password = $2 WHERE id = $3",
			username, password, id)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
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

// DeleteUser removes a user and reports the affected row count. Deleting a
// nonexistent user is not an error; the count is simply zero.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
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

// Login verifies a user's credentials and issues a session token. Unknown
// email and password mismatch both return ErrInvalidCredentials so the
// response does not disclose whether the account exists.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var user models.User
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			"SELECT id, username, email, password, created_at FROM users WHERE email = $1", email)
		if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidCredentials
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	// Don't send the password hash to the client
	user.Password = ""
	return user, token, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
