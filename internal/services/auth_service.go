package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/repos"
	"wikimart/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(u *repos.UserRepo) *AuthService { return &AuthService{Users: u} }

type Registration struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// Register creates the account. It does not open a session.
func (s *AuthService) Register(ctx context.Context, r Registration) (*domain.User, error) {
	username, ok := validate.Username(r.Username)
	if !ok {
		return nil, fmt.Errorf("%w: username may contain only letters, digits and @.+-_", apperrors.ErrValidation)
	}
	email := strings.TrimSpace(r.Email)
	if email != "" {
		if _, ok := validate.Email(email); !ok {
			return nil, fmt.Errorf("%w: enter a valid email address", apperrors.ErrValidation)
		}
	}
	if r.Password != r.Confirmation {
		return nil, fmt.Errorf("%w: passwords must match.", apperrors.ErrValidation)
	}
	if !validate.Password(r.Password) {
		return nil, fmt.Errorf("%w: password must be 8-64 characters", apperrors.ErrValidation)
	}

	if _, err := s.Users.ByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already taken.", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Username: username, Email: email, Hash: string(h)}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, apperrors.ErrIntegrity) {
			return nil, fmt.Errorf("%w: username already taken.", apperrors.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, apperrors.ErrBadCredentials
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// StartSession binds sid to an already authenticated user (after Register).
func (s *AuthService) StartSession(ctx context.Context, sid string, u *domain.User) error {
	return s.Users.BindSession(ctx, sid, u.ID)
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}
