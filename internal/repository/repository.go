package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhishek622/intellihire/pkg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// Repository is the Postgres store for users, jobs, applications and
// interviews. Résumé text is sealed with crypto before it is written.
type Repository struct {
	db     *pgxpool.Pool
	crypto *pkg.Crypto
}

func NewRepository(db *pgxpool.Pool, crypto *pkg.Crypto) *Repository {
	return &Repository{db: db, crypto: crypto}
}

func (r *Repository) execTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// PostgreSQL unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) seal(s string) (string, error) {
	if r.crypto == nil {
		return s, nil
	}
	out, err := r.crypto.Encrypt(s)
	if err != nil {
		return "", fmt.Errorf("encrypt resume: %w", err)
	}
	return out, nil
}

func (r *Repository) open(s string) (string, error) {
	if r.crypto == nil {
		return s, nil
	}
	out, err := r.crypto.Decrypt(s)
	if err != nil {
		return "", fmt.Errorf("decrypt resume: %w", err)
	}
	return out, nil
}
