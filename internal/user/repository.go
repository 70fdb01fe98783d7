package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetTokenNotFound = errors.New("reset token not found")
)

// Repository contains all DB interactions needed by the user service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context, role *Role) ([]User, error)

	// ActiveManagerEmails backs the manager-wide notification fan-out when
	// no static recipient list is configured.
	ActiveManagerEmails(ctx context.Context) ([]string, error)

	CreateResetToken(ctx context.Context, t *PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*PasswordResetToken, error)

	// ConsumeResetToken sets the new password hash and marks the token used
	// in a single transaction.
	ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, newHash string) error
}
