package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/auth/model"
	"blog-backend/internal/domains/auth/repository"
)

// Service handles login, logout and session-to-user resolution.
type Service interface {
	Login(ctx context.Context, req model.LoginRequest, ipAddress, userAgent string) (*model.UserDTO, string, error)
	Logout(ctx context.Context, sessionID string) error
	UserFromSession(ctx context.Context, sessionID string) (*model.User, error)
	CreateUser(ctx context.Context, username, email, password string, roles []string) (*model.UserDTO, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionManager
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionManager) Service {
	return &authService{users: users, sessions: sessions}
}

// Login verifies credentials and creates a session. Unknown username and
// wrong password both surface ErrInvalidCredentials so the response does
// not reveal which accounts exist.
func (s *authService) Login(ctx context.Context, req model.LoginRequest, ipAddress, userAgent string) (*model.UserDTO, string, error) {
	if req.Username == "" || req.Password == "" {
		return nil, "", model.ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.CreateSession(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	dto := user.ToDTO()
	return &dto, sessionID, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// UserFromSession resolves a session token to its user. A valid session
// pointing at a deleted user is cleaned up and treated as anonymous.
func (s *authService) UserFromSession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	userID, err := s.sessions.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.DeleteSession(ctx, sessionID)
		return nil, nil
	}
	return user, nil
}

// CreateUser is seed/admin tooling, reachable from blogctl only.
func (s *authService) CreateUser(ctx context.Context, username, email, password string, roles []string) (*model.UserDTO, error) {
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}
	if len(roles) == 0 {
		roles = []string{model.RoleViewer}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, email, string(hash), roles)
	if err != nil {
		return nil, err
	}

	dto := user.ToDTO()
	return &dto, nil
}
