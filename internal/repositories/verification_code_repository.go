package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biotrack/internal/models"
)

type VerificationCodeRepository interface {
	Issue(accountID int64, purpose, codeHash string, sentAt, expiresAt time.Time) (int64, error)
	GetActive(accountID int64, purpose string) (*models.VerificationCode, error)
	CountRecentSends(accountID int64, purpose string, since time.Time) (int, error)
	IncrementAttempts(id int64) (int, error)
	Consume(id int64) (bool, error)
	ConsumeAndVerify(id, accountID int64) (bool, error)
	ExpireNow(id int64) error
	DeleteExpired(olderThan time.Time) (int64, error)
}

type verificationCodeRepository struct {
	DB *sql.DB
}

func NewVerificationCodeRepository(db *sql.DB) VerificationCodeRepository {
	return &verificationCodeRepository{DB: db}
}

// Issue — гасит предыдущий активный код пары (account, purpose) и создаёт новый.
// Обе операции идут в одной транзакции, чтобы инвариант "один активный код на
// пару" держался и при параллельных выдачах.
func (r *verificationCodeRepository) Issue(accountID int64, purpose, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("verification_code issue: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE verification_codes
		SET consumed = TRUE
		WHERE account_id = $1 AND purpose = $2 AND consumed = FALSE
	`, accountID, purpose)
	if err != nil {
		return 0, fmt.Errorf("verification_code issue: void previous: %w", err)
	}

	var id int64
	err = tx.QueryRow(`
		INSERT INTO verification_codes (account_id, purpose, code_hash, sent_at, expires_at, consumed, attempts)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0)
		RETURNING id
	`, accountID, purpose, codeHash, sentAt, expiresAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("verification_code issue: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("verification_code issue: commit: %w", err)
	}
	return id, nil
}

// GetActive — последний непогашенный код пары (account, purpose).
func (r *verificationCodeRepository) GetActive(accountID int64, purpose string) (*models.VerificationCode, error) {
	const q = `
		SELECT id, account_id, purpose, code_hash, sent_at, expires_at, consumed, attempts
		FROM verification_codes
		WHERE account_id = $1 AND purpose = $2 AND consumed = FALSE
		ORDER BY sent_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, accountID, purpose)
	var v models.VerificationCode
	if err := row.Scan(&v.ID, &v.AccountID, &v.Purpose, &v.CodeHash, &v.SentAt, &v.ExpiresAt, &v.Consumed, &v.Attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("verification_code active: %w", err)
	}
	return &v, nil
}

// CountRecentSends — сколько раз отправляли за последнее окно (для троттлинга).
func (r *verificationCodeRepository) CountRecentSends(accountID int64, purpose string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM verification_codes
		WHERE account_id = $1 AND purpose = $2 AND sent_at >= $3
	`
	var c int
	if err := r.DB.QueryRow(q, accountID, purpose, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("verification_code count recent: %w", err)
	}
	return c, nil
}

// IncrementAttempts — +1 попытка, возвращает новое значение attempts.
func (r *verificationCodeRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE verification_codes
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("verification_code increment attempts: %w", err)
	}
	return attempts, nil
}

// Consume — условное погашение. consumed=FALSE в WHERE гарантирует, что при
// параллельных подтверждениях одного кода выиграет ровно один запрос.
func (r *verificationCodeRepository) Consume(id int64) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE verification_codes
		SET consumed = TRUE
		WHERE id = $1 AND consumed = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("verification_code consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ConsumeAndVerify — погашение кода и перевод аккаунта в verified одной
// транзакцией. Если код уже погашен конкурентным запросом, аккаунт не
// трогаем и возвращаем false.
func (r *verificationCodeRepository) ConsumeAndVerify(id, accountID int64) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("verification_code consume+verify: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE verification_codes
		SET consumed = TRUE
		WHERE id = $1 AND consumed = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("verification_code consume+verify: consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n != 1 {
		return false, nil
	}

	_, err = tx.Exec(`
		UPDATE accounts
		SET status = $1, verified_at = NOW()
		WHERE id = $2
	`, models.AccountStatusVerified, accountID)
	if err != nil {
		return false, fmt.Errorf("verification_code consume+verify: verify account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("verification_code consume+verify: commit: %w", err)
	}
	return true, nil
}

// ExpireNow — моментально "протухаем" код (используем при превышении попыток).
func (r *verificationCodeRepository) ExpireNow(id int64) error {
	_, err := r.DB.Exec(`UPDATE verification_codes SET expires_at = NOW() WHERE id=$1`, id)
	return err
}

func (r *verificationCodeRepository) DeleteExpired(olderThan time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM verification_codes WHERE expires_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("verification_code delete expired: %w", err)
	}
	return res.RowsAffected()
}
