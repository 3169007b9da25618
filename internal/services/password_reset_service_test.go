package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"biotrack/internal/models"
)

func newResetFixture(t *testing.T) (*mockAccountRepo, *mockResetRepo, *mockEmailService, AuthService, PasswordResetService) {
	t.Helper()
	accounts := &mockAccountRepo{}
	resets := &mockResetRepo{}
	emails := &mockEmailService{}
	auth := NewAuthService([]byte("test-secret"), time.Minute)
	svc := NewPasswordResetService(accounts, resets, emails, auth)
	return accounts, resets, emails, auth, svc
}

func TestRequestReset(t *testing.T) {
	accounts, resets, emails, auth, svc := newResetFixture(t)

	account := verifiedAccount(t, auth, "secret1")
	accounts.On("GetByEmail", "user@example.com").Return(account, nil)
	resets.On("Create", int64(1), mock.Anything, mock.Anything).Return(&models.PasswordReset{ID: 7}, nil)
	emails.On("SendPasswordResetEmail", "user@example.com", mock.Anything).Return(nil)

	require.NoError(t, svc.RequestReset("user@example.com"))
	emails.AssertExpectations(t)
}

func TestRequestResetUnknownEmailNoop(t *testing.T) {
	accounts, resets, emails, _, svc := newResetFixture(t)

	accounts.On("GetByEmail", "nobody@example.com").Return(nil, nil)

	require.NoError(t, svc.RequestReset("nobody@example.com"))
	resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	emails.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything)
}

func TestResetPassword(t *testing.T) {
	accounts, resets, _, _, svc := newResetFixture(t)

	resets.On("GetByToken", "good-token").Return(&models.PasswordReset{
		ID:        7,
		AccountID: 1,
		Token:     "good-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	accounts.On("UpdatePassword", int64(1), mock.Anything).Return(nil)
	resets.On("MarkUsed", int64(7)).Return(nil)

	require.NoError(t, svc.ResetPassword("good-token", "newsecret"))
	resets.AssertCalled(t, "MarkUsed", int64(7))
}

func TestResetPasswordBadToken(t *testing.T) {
	_, resets, _, _, svc := newResetFixture(t)

	resets.On("GetByToken", "bad-token").Return(nil, nil)

	err := svc.ResetPassword("bad-token", "newsecret")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	_, resets, _, _, svc := newResetFixture(t)

	resets.On("GetByToken", "stale").Return(&models.PasswordReset{
		ID:        7,
		AccountID: 1,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	err := svc.ResetPassword("stale", "newsecret")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordUsedToken(t *testing.T) {
	_, resets, _, _, svc := newResetFixture(t)

	used := time.Now().Add(-time.Minute)
	resets.On("GetByToken", "used").Return(&models.PasswordReset{
		ID:        7,
		AccountID: 1,
		Token:     "used",
		ExpiresAt: time.Now().Add(time.Hour),
		UsedAt:    &used,
	}, nil)

	err := svc.ResetPassword("used", "newsecret")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordValidation(t *testing.T) {
	_, _, _, _, svc := newResetFixture(t)

	assert.ErrorIs(t, svc.ResetPassword("", "newsecret"), ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword("token", "123"), ErrValidation)
}
