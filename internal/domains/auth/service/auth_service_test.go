package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/auth/model"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, username, email, passwordHash string, roles []string) (*model.User, error) {
	args := m.Called(ctx, username, email, passwordHash, roles)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) EnsureSearchIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (string, error) {
	args := m.Called(ctx, userID, ipAddress, userAgent)
	return args.String(0), args.Error(1)
}

func (m *mockSessions) ValidateSession(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *mockSessions) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessions)
	svc := NewAuthService(users, sessions)

	user := &model.User{
		ID:           "u-1",
		Username:     "admin",
		PasswordHash: hashFor(t, "secret"),
		Roles:        []string{model.RoleAdmin},
	}
	users.On("GetByUsername", mock.Anything, "admin").Return(user, nil)
	sessions.On("CreateSession", mock.Anything, "u-1", "1.2.3.4", "ua").Return("session-1", nil)

	dto, sessionID, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "admin",
		Password: "secret",
	}, "1.2.3.4", "ua")

	require.NoError(t, err)
	assert.Equal(t, "session-1", sessionID)
	assert.Equal(t, "u-1", dto.ID)
	sessions.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessions)
	svc := NewAuthService(users, sessions)

	user := &model.User{ID: "u-1", Username: "admin", PasswordHash: hashFor(t, "secret")}
	users.On("GetByUsername", mock.Anything, "admin").Return(user, nil)

	_, _, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "admin",
		Password: "wrong",
	}, "", "")

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUnknownUserMatchesWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessions)
	svc := NewAuthService(users, sessions)

	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

	_, _, err := svc.Login(context.Background(), model.LoginRequest{
		Username: "ghost",
		Password: "whatever",
	}, "", "")

	// Unknown user and wrong password are indistinguishable to callers.
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginMissingCredentials(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), new(mockSessions))

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Username: "admin"}, "", "")
	assert.ErrorIs(t, err, model.ErrMissingCredentials)
}

func TestUserFromSessionCleansUpOrphanedSession(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessions)
	svc := NewAuthService(users, sessions)

	sessions.On("ValidateSession", mock.Anything, "s-1").Return("u-gone", nil)
	users.On("GetByID", mock.Anything, "u-gone").Return(nil, nil)
	sessions.On("DeleteSession", mock.Anything, "s-1").Return(nil)

	user, err := svc.UserFromSession(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Nil(t, user)
	sessions.AssertCalled(t, "DeleteSession", mock.Anything, "s-1")
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	sessions := new(mockSessions)
	svc := NewAuthService(new(mockUserRepo), sessions)

	require.NoError(t, svc.Logout(context.Background(), ""))
	sessions.AssertNotCalled(t, "DeleteSession", mock.Anything, mock.Anything)
}

func TestCreateUserHashesPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewAuthService(users, new(mockSessions))

	users.On("Create", mock.Anything, "editor", "e@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")) == nil
	}), []string{model.RoleEditor}).Return(&model.User{ID: "u-2", Username: "editor", Roles: []string{model.RoleEditor}}, nil)

	dto, err := svc.CreateUser(context.Background(), "editor", "e@example.com", "pw", []string{model.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, "editor", dto.Username)
	users.AssertExpectations(t)
}
