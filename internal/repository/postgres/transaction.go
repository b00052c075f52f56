package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"

	"github.com/google/uuid"
)

const transactionColumns = `id, rental_id, user_id, type, amount_cents, status, external_reference, paid_at, created_at`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	query := `INSERT INTO transactions (id, rental_id, user_id, type, amount_cents, status, external_reference, paid_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.RentalID, t.UserID, t.Type, t.AmountCents,
		t.Status, t.ExternalReference, t.PaidAt, t.CreatedAt)
	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t := &domain.Transaction{}
	var extRef sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.RentalID, &t.UserID, &t.Type,
		&t.AmountCents, &t.Status, &extRef, &t.PaidAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("transaction not found")
	}
	if err != nil {
		return nil, err
	}
	t.ExternalReference = extRef.String
	return t, nil
}

// Confirm settles a PENDING transaction. The false return without error means
// another writer (a retried webhook) settled it first.
func (r *transactionRepository) Confirm(ctx context.Context, id, externalReference string, paidAt time.Time) (bool, error) {
	query := `UPDATE transactions SET status = $3, external_reference = $4, paid_at = $5
	          WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, domain.TransactionStatusPending,
		domain.TransactionStatusCompleted, externalReference, paidAt)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *transactionRepository) MarkRefunded(ctx context.Context, id string) (bool, error) {
	query := `UPDATE transactions SET status = $3 WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, domain.TransactionStatusCompleted,
		domain.TransactionStatusRefunded)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *transactionRepository) List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{f.UserID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *transactionRepository) ListByRental(ctx context.Context, rentalID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE rental_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var extRef sql.NullString
		if err := rows.Scan(&t.ID, &t.RentalID, &t.UserID, &t.Type, &t.AmountCents, &t.Status,
			&extRef, &t.PaidAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ExternalReference = extRef.String
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
