package postgres_test

import (
	"context"
	"testing"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransactionRepository_Confirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()
	paidAt := time.Now()

	t.Run("FirstConfirmationWins", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs("tx-1", domain.TransactionStatusPending, domain.TransactionStatusCompleted, "gw-ref-1", paidAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		confirmed, err := repo.Confirm(ctx, "tx-1", "gw-ref-1", paidAt)
		assert.NoError(t, err)
		assert.True(t, confirmed)
	})

	t.Run("ReplayIsNotAnError", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs("tx-1", domain.TransactionStatusPending, domain.TransactionStatusCompleted, "gw-ref-1", paidAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		confirmed, err := repo.Confirm(ctx, "tx-1", "gw-ref-1", paidAt)
		assert.NoError(t, err)
		assert.False(t, confirmed)
	})
}

func TestTransactionRepository_MarkRefunded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs("tx-1", domain.TransactionStatusCompleted, domain.TransactionStatusRefunded).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MarkRefunded(ctx, "tx-1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NotCompleted", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs("tx-1", domain.TransactionStatusCompleted, domain.TransactionStatusRefunded).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkRefunded(ctx, "tx-1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTransactionRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "rental_id", "user_id", "type", "amount_cents", "status", "external_reference", "paid_at", "created_at"}).
			AddRow("tx-1", "rental-1", "renter-1", "SECURITY_DEPOSIT", 500, "COMPLETED", "gw-ref-1", now, now)

		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = \\$1").
			WithArgs("tx-1").
			WillReturnRows(rows)

		tx, err := repo.GetByID(ctx, "tx-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
		assert.Equal(t, "gw-ref-1", tx.ExternalReference)
		assert.Equal(t, int64(500), tx.AmountCents)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, "missing")
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}
