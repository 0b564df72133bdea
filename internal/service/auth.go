package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kioskdesk/internal/auth"
	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// RegisterInput holds a new account's details.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is a signed-in user and their bearer token.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(u *model.User) (string, time.Time, error)
}

// AuthService registers accounts and opens sessions.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login returns ErrInvalidCredentials for an unknown email and for a wrong password alike.
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email already registered")
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
