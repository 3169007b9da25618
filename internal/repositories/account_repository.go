package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"biotrack/internal/models"
)

// ErrDuplicateEmail возвращается при нарушении уникального индекса по email.
var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id int64) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	UpdateStatus(id int64, status string) error
	UpdatePassword(id int64, passwordHash string) error
	List(limit, offset int) ([]*models.Account, error)
	GetCount() (int, error)
	GetCountByStatus(status string) (int, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `
	id, email, role, password_hash,
	first_name, last_name, company_name, phone,
	status, created_at, verified_at
`

func (r *accountRepository) Create(account *models.Account) error {
	const q = `
		INSERT INTO accounts (
			email, role, password_hash,
			first_name, last_name, company_name, phone,
			status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		account.Email,
		account.Role,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.CompanyName,
		account.Phone,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var (
		firstName   sql.NullString
		lastName    sql.NullString
		companyName sql.NullString
		phone       sql.NullString
		verifiedAt  sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.Role, &a.PasswordHash,
		&firstName, &lastName, &companyName, &phone,
		&a.Status, &a.CreatedAt, &verifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("account scan: %w", err)
	}
	if firstName.Valid {
		a.FirstName = firstName.String
	}
	if lastName.Valid {
		a.LastName = lastName.String
	}
	if companyName.Valid {
		a.CompanyName = companyName.String
	}
	if phone.Valid {
		a.Phone = phone.String
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		a.VerifiedAt = &t
	}
	return a, nil
}

func (r *accountRepository) GetByID(id int64) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.DB.QueryRow(q, id))
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.DB.QueryRow(q, email))
}

func (r *accountRepository) UpdateStatus(id int64, status string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (r *accountRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

func (r *accountRepository) List(limit, offset int) ([]*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Account
	for rows.Next() {
		a := &models.Account{}
		var (
			firstName   sql.NullString
			lastName    sql.NullString
			companyName sql.NullString
			phone       sql.NullString
			verifiedAt  sql.NullTime
		)
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Role, &a.PasswordHash,
			&firstName, &lastName, &companyName, &phone,
			&a.Status, &a.CreatedAt, &verifiedAt,
		); err != nil {
			return nil, err
		}
		if firstName.Valid {
			a.FirstName = firstName.String
		}
		if lastName.Valid {
			a.LastName = lastName.String
		}
		if companyName.Valid {
			a.CompanyName = companyName.String
		}
		if phone.Valid {
			a.Phone = phone.String
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			a.VerifiedAt = &t
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *accountRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&c)
	return c, err
}

func (r *accountRepository) GetCountByStatus(status string) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts WHERE status = $1`, status).Scan(&c)
	return c, err
}
