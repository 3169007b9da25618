package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biotrack/internal/models"
)

type SessionRepository interface {
	Create(accountID int64, refreshToken string, expiresAt time.Time) (*models.Session, error)
	GetByRefreshToken(token string) (*models.Session, error)
	Rotate(oldToken, newToken string, newExpiresAt time.Time) (*models.Session, error)
	ListByAccount(accountID int64) ([]*models.Session, error)
	Revoke(id, accountID int64) error
	RevokeByRefreshToken(token string) error
	DeleteExpired(now time.Time) (int64, error)
}

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(accountID int64, refreshToken string, expiresAt time.Time) (*models.Session, error) {
	const q = `
		INSERT INTO sessions (account_id, refresh_token, expires_at, revoked)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at
	`
	s := &models.Session{
		AccountID:    accountID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	if err := r.DB.QueryRow(q, accountID, refreshToken, expiresAt).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	return s, nil
}

func (r *sessionRepository) GetByRefreshToken(token string) (*models.Session, error) {
	const q = `
		SELECT id, account_id, refresh_token, expires_at, revoked, created_at
		FROM sessions
		WHERE refresh_token = $1
	`
	s := &models.Session{}
	err := r.DB.QueryRow(q, token).Scan(&s.ID, &s.AccountID, &s.RefreshToken, &s.ExpiresAt, &s.Revoked, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session by refresh token: %w", err)
	}
	return s, nil
}

// Rotate — атомарная замена refresh-токена: WHERE по старому токену, чтобы при
// параллельных refresh выиграл ровно один.
func (r *sessionRepository) Rotate(oldToken, newToken string, newExpiresAt time.Time) (*models.Session, error) {
	const q = `
		UPDATE sessions
		SET refresh_token = $1, expires_at = $2
		WHERE refresh_token = $3 AND revoked = FALSE
		RETURNING id, account_id, refresh_token, expires_at, revoked, created_at
	`
	s := &models.Session{}
	err := r.DB.QueryRow(q, newToken, newExpiresAt, oldToken).Scan(
		&s.ID, &s.AccountID, &s.RefreshToken, &s.ExpiresAt, &s.Revoked, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session rotate: %w", err)
	}
	return s, nil
}

func (r *sessionRepository) ListByAccount(accountID int64) ([]*models.Session, error) {
	const q = `
		SELECT id, account_id, refresh_token, expires_at, revoked, created_at
		FROM sessions
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Session
	for rows.Next() {
		s := &models.Session{}
		if err := rows.Scan(&s.ID, &s.AccountID, &s.RefreshToken, &s.ExpiresAt, &s.Revoked, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Revoke — с проверкой владельца, чтобы нельзя было отозвать чужую сессию.
func (r *sessionRepository) Revoke(id, accountID int64) error {
	res, err := r.DB.Exec(`
		UPDATE sessions SET revoked = TRUE
		WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) RevokeByRefreshToken(token string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET revoked = TRUE WHERE refresh_token = $1`, token)
	return err
}

func (r *sessionRepository) DeleteExpired(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at < $1 OR revoked = TRUE`, now)
	if err != nil {
		return 0, fmt.Errorf("session delete expired: %w", err)
	}
	return res.RowsAffected()
}
