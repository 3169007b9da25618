package repositories

import (
	"database/sql"
	"errors"
	"time"

	"biotrack/internal/models"
)

type PasswordResetRepository interface {
	Create(accountID int64, token string, expiresAt time.Time) (*models.PasswordReset, error)
	GetByToken(token string) (*models.PasswordReset, error)
	MarkUsed(id int64) error
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(accountID int64, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	const q = `
		INSERT INTO password_resets (account_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	pr := &models.PasswordReset{AccountID: accountID, Token: token, ExpiresAt: expiresAt}
	if err := r.DB.QueryRow(q, accountID, token, expiresAt).Scan(&pr.ID, &pr.CreatedAt); err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *passwordResetRepository) GetByToken(token string) (*models.PasswordReset, error) {
	const q = `
		SELECT id, account_id, token, expires_at, used_at, created_at
		FROM password_resets
		WHERE token = $1
	`
	pr := &models.PasswordReset{}
	var usedAt sql.NullTime
	if err := r.DB.QueryRow(q, token).Scan(&pr.ID, &pr.AccountID, &pr.Token, &pr.ExpiresAt, &usedAt, &pr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if usedAt.Valid {
		pr.UsedAt = &usedAt.Time
	}
	return pr, nil
}

func (r *passwordResetRepository) MarkUsed(id int64) error {
	_, err := r.DB.Exec(`UPDATE password_resets SET used_at = NOW() WHERE id = $1`, id)
	return err
}
