package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studiobook/studio-booking/internal/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrManagerSignup      = errors.New("cannot self-register as manager")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
	ErrUserInactive       = errors.New("user is inactive")
)

const resetTokenTTL = 2 * time.Hour

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Notifier sends a best-effort email; it never returns an error.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, html string)
}

type Service struct {
	repo     Repository
	tokens   *auth.TokenManager
	notifier Notifier
	baseURL  string
	env      string
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenManager, notifier Notifier, baseURL, env string, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		baseURL:  baseURL,
		env:      env,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an artist or producer account. Manager accounts are not
// self-service: they are created by seeding or by operations.
func (s *Service) Register(ctx context.Context, email, password, displayName string, role Role) (*User, error) {
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = RoleArtist
	}
	if role == RoleManager {
		return nil, ErrManagerSignup
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u.Email)
}

// Authenticate resolves a bearer token to its active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, role *Role) ([]User, error) {
	return s.repo.List(ctx, role)
}

// Forgot issues a single-use reset token and emails the reset link. It never
// reveals whether the address exists. The returned link is only surfaced to
// the caller in dev.
func (s *Service) Forgot(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	rec := &PasswordResetToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, rec); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/frontend/auth/reset.html?token=%s", s.baseURL, token)
	html := fmt.Sprintf(`
	<div style="font-family:Inter,Arial,sans-serif;color:#111;font-size:15px">
	  <p>Hi,</p>
	  <p>To reset your password click here:</p>
	  <p><a href="%s">%s</a></p>
	  <p>If you did not request this change, ignore this email.</p>
	</div>
	`, link, link)
	s.notifier.Send(ctx, []string{u.Email}, "Password reset", html)

	if s.env == "dev" {
		return link, nil
	}
	return "", nil
}

// Reset consumes a reset token and sets the new password.
func (s *Service) Reset(ctx context.Context, token, newPassword string) error {
	rec, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("load reset token: %w", err)
	}
	if rec.Used || rec.ExpiresAt.Before(s.now()) {
		return ErrResetTokenInvalid
	}

	if _, err := s.repo.GetByID(ctx, rec.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.ConsumeResetToken(ctx, rec.ID, rec.UserID, string(hash))
}

// randomToken returns a 43-character urlsafe token (32 random bytes).
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
