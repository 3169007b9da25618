package services

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"biotrack/internal/models"
	"biotrack/internal/repositories"
	"biotrack/internal/utils"
)

// Настройки безопасности кодов (можно вынести в конфиг при желании).
const (
	codeDigits          = 6
	maxResendsPerWindow = 3
	resendWindow        = 10 * time.Minute
	maxConfirmAttempts  = 5
	defaultCodeTTL      = 5 * time.Minute
)

// CodeService — выдача и проверка одноразовых кодов (registration|login).
// В БД хранится только bcrypt-хэш кода; открытый код живёт ровно до отправки
// письма.
type CodeService struct {
	Codes   repositories.VerificationCodeRepository
	CodeTTL time.Duration // если 0 — возьмём defaultCodeTTL
}

func NewCodeService(codes repositories.VerificationCodeRepository) *CodeService {
	return &CodeService{Codes: codes, CodeTTL: defaultCodeTTL}
}

func (s *CodeService) ttl() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return defaultCodeTTL
}

// Issue — новый код для пары (account, purpose); каждый resend — новый код,
// предыдущий активный гасится в той же транзакции. Троттлинг: не чаще
// maxResendsPerWindow за resendWindow.
func (s *CodeService) Issue(accountID int64, purpose string) (code string, expiresAt time.Time, err error) {
	since := time.Now().Add(-resendWindow)
	cnt, err := s.Codes.CountRecentSends(accountID, purpose, since)
	if err != nil {
		return "", time.Time{}, err
	}
	if cnt >= maxResendsPerWindow {
		return "", time.Time{}, ErrResendThrottled
	}

	code, err = utils.NewNumericCode(codeDigits)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate code: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("bcrypt generate: %w", err)
	}

	sentAt := time.Now()
	expiresAt = sentAt.Add(s.ttl())
	if _, err := s.Codes.Issue(accountID, purpose, string(codeHash), sentAt, expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return code, expiresAt, nil
}

// Check — сверяет код с bcrypt-хэшем активной записи, считает попытки и TTL.
// Возвращает запись кода; погашение (consume) делает вызывающая сторона, чтобы
// оно прошло в одной транзакции с её собственными изменениями.
func (s *CodeService) Check(accountID int64, purpose, code string) (*models.VerificationCode, error) {
	v, err := s.Codes.GetActive(accountID, purpose)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrCodeInvalid
	}
	if time.Now().After(v.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		attempts, incErr := s.Codes.IncrementAttempts(v.ID)
		if incErr != nil {
			return nil, incErr
		}
		if attempts >= maxConfirmAttempts {
			_ = s.Codes.ExpireNow(v.ID)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrCodeInvalid
	}
	return v, nil
}

// ActiveCode — активный код пары без проверки значения (для /register/state).
func (s *CodeService) ActiveCode(accountID int64, purpose string) (*models.VerificationCode, error) {
	v, err := s.Codes.GetActive(accountID, purpose)
	if err != nil {
		return nil, err
	}
	if v != nil && time.Now().After(v.ExpiresAt) {
		return nil, nil
	}
	return v, nil
}

// CleanupExpired удаляет давно протухшие записи кодов.
func (s *CodeService) CleanupExpired(retention time.Duration) (int64, error) {
	return s.Codes.DeleteExpired(time.Now().Add(-retention))
}
