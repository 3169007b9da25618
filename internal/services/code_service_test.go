package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"biotrack/internal/models"
)

func hashCode(t *testing.T, code string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestCodeServiceIssue(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	repo.On("CountRecentSends", int64(1), models.PurposeRegistration, mock.Anything).Return(0, nil)
	repo.On("Issue", int64(1), models.PurposeRegistration, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(10), nil)

	code, expiresAt, err := svc.Issue(1, models.PurposeRegistration)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.True(t, expiresAt.After(time.Now()))
	repo.AssertExpectations(t)
}

func TestCodeServiceIssueThrottled(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	repo.On("CountRecentSends", int64(1), models.PurposeLogin, mock.Anything).Return(3, nil)

	_, _, err := svc.Issue(1, models.PurposeLogin)
	assert.ErrorIs(t, err, ErrResendThrottled)
	repo.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCodeServiceCheckOK(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	v := &models.VerificationCode{
		ID:        10,
		AccountID: 1,
		Purpose:   models.PurposeRegistration,
		CodeHash:  hashCode(t, "123456"),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	repo.On("GetActive", int64(1), models.PurposeRegistration).Return(v, nil)

	got, err := svc.Check(1, models.PurposeRegistration, "123456")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
}

func TestCodeServiceCheckNoActiveCode(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	repo.On("GetActive", int64(1), models.PurposeRegistration).Return(nil, nil)

	_, err := svc.Check(1, models.PurposeRegistration, "123456")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestCodeServiceCheckExpired(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	v := &models.VerificationCode{
		ID:        10,
		CodeHash:  hashCode(t, "123456"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	repo.On("GetActive", int64(1), models.PurposeRegistration).Return(v, nil)

	_, err := svc.Check(1, models.PurposeRegistration, "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestCodeServiceCheckWrongCodeCountsAttempt(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	v := &models.VerificationCode{
		ID:        10,
		CodeHash:  hashCode(t, "123456"),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	repo.On("GetActive", int64(1), models.PurposeRegistration).Return(v, nil)
	repo.On("IncrementAttempts", int64(10)).Return(1, nil)

	_, err := svc.Check(1, models.PurposeRegistration, "000000")
	assert.ErrorIs(t, err, ErrCodeInvalid)
	repo.AssertExpectations(t)
}

func TestCodeServiceCheckTooManyAttempts(t *testing.T) {
	repo := &mockCodeRepo{}
	svc := NewCodeService(repo)

	v := &models.VerificationCode{
		ID:        10,
		CodeHash:  hashCode(t, "123456"),
		ExpiresAt: time.Now().Add(5 * time.Minute),
		Attempts:  4,
	}
	repo.On("GetActive", int64(1), models.PurposeRegistration).Return(v, nil)
	repo.On("IncrementAttempts", int64(10)).Return(5, nil)
	repo.On("ExpireNow", int64(10)).Return(nil)

	_, err := svc.Check(1, models.PurposeRegistration, "000000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	repo.AssertCalled(t, "ExpireNow", int64(10))
}
