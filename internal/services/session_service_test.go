package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"biotrack/internal/models"
)

func newSessionFixture() (*mockSessionRepo, *mockAccountRepo, SessionService) {
	sessions := &mockSessionRepo{}
	accounts := &mockAccountRepo{}
	auth := NewAuthService([]byte("test-secret"), time.Minute)
	return sessions, accounts, NewSessionService(sessions, accounts, auth, 0)
}

func TestSessionIssue(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	account := &models.Account{ID: 1, Role: "user"}
	sessions.On("Create", int64(1), mock.Anything, mock.Anything).Return(&models.Session{ID: 5}, nil)

	tokens, err := svc.Issue(account)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Len(t, tokens.RefreshToken, 64) // 32 байта hex
	assert.True(t, tokens.RefreshExpiresAt.After(tokens.AccessExpiresAt))
}

func TestSessionRefresh(t *testing.T) {
	sessions, accounts, svc := newSessionFixture()

	old := &models.Session{
		ID:           5,
		AccountID:    1,
		RefreshToken: "old-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	sessions.On("GetByRefreshToken", "old-token").Return(old, nil)
	sessions.On("Rotate", "old-token", mock.Anything, mock.Anything).Return(&models.Session{
		ID:        5,
		AccountID: 1,
	}, nil)
	accounts.On("GetByID", int64(1)).Return(&models.Account{ID: 1, Role: "user"}, nil)

	tokens, err := svc.Refresh("old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", tokens.RefreshToken)
}

func TestSessionRefreshUnknownToken(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("GetByRefreshToken", "missing").Return(nil, nil)

	_, err := svc.Refresh("missing")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRefreshRevoked(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("GetByRefreshToken", "revoked").Return(&models.Session{
		ID:           5,
		AccountID:    1,
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().Add(time.Hour),
		Revoked:      true,
	}, nil)

	_, err := svc.Refresh("revoked")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRefreshExpired(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("GetByRefreshToken", "stale").Return(&models.Session{
		ID:           5,
		AccountID:    1,
		RefreshToken: "stale",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}, nil)

	_, err := svc.Refresh("stale")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRefreshLostRace(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("GetByRefreshToken", "old-token").Return(&models.Session{
		ID:           5,
		AccountID:    1,
		RefreshToken: "old-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil)
	// параллельный refresh успел первым
	sessions.On("Rotate", "old-token", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.Refresh("old-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionLogout(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("RevokeByRefreshToken", "token").Return(nil)

	require.NoError(t, svc.Logout("token"))
	sessions.AssertExpectations(t)
}

func TestSessionCleanupExpired(t *testing.T) {
	sessions, _, svc := newSessionFixture()

	sessions.On("DeleteExpired", mock.Anything).Return(int64(3), nil)

	n, err := svc.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
