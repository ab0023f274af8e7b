package user

import (
	"context"
	"errors"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

type Repo interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByUid(ctx context.Context, uid string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Deactivate(ctx context.Context, id int) error
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const accountColumns = `id, uid, email, first_name, last_name, password_hash, currency, is_active, created_at, updated_at`

func (r *RepoImpl) Create(ctx context.Context, account Account) (Account, error) {
	query := `INSERT INTO users (uid, email, first_name, last_name, password_hash, currency)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, is_active, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		account.Uid,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.Currency,
	).Scan(&account.Id, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			log.Debugf("duplicate email on account create: %s", account.Email)
			return Account{}, apperr.Conflict("email already registered")
		}
		log.Errorf("failed to create account: %v", err)
		return Account{}, err
	}
	return account, nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, uid string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE uid = $1`
	account, err := r.scanAccount(r.db.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("account with uid %s not found", uid)
		return Account{}, ErrAccountNotFound
	} else if err != nil {
		log.Errorf("failed to get account by uid: %v", err)
		return Account{}, err
	}
	return account, nil
}

func (r *RepoImpl) GetByEmail(ctx context.Context, email string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	account, err := r.scanAccount(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("account with email %s not found", email)
		return Account{}, ErrAccountNotFound
	} else if err != nil {
		log.Errorf("failed to get account by email: %v", err)
		return Account{}, err
	}
	return account, nil
}

func (r *RepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		log.Errorf("failed to check email existence: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *RepoImpl) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE users SET is_active = false, updated_at = now() WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Errorf("failed to deactivate account: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *RepoImpl) scanAccount(row pgx.Row) (Account, error) {
	var account Account
	err := row.Scan(
		&account.Id,
		&account.Uid,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.PasswordHash,
		&account.Currency,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

const pgerrUniqueViolation = "23505"
