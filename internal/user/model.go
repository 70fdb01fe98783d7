package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleArtist   Role = "ARTIST"
	RoleProducer Role = "PRODUCER"
	RoleManager  Role = "MANAGER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleArtist, RoleProducer, RoleManager:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label is the name used in notifications: display name when set,
// otherwise the email address.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if name := u.DisplayName; name != "" {
		return name
	}
	return u.Email
}

type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
