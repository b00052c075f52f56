package postgres

import (
	"context"
	"database/sql"
	"errors"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"

	"github.com/lib/pq"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT id, owner_id, title, price_per_day_cents, security_deposit_cents, images, is_available, created_at
	          FROM items WHERE id = $1`
	it := &domain.Item{}
	var images pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.OwnerID, &it.Title,
		&it.PricePerDayCents, &it.SecurityDepositCents, &images, &it.IsAvailable, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("item not found")
	}
	if err != nil {
		return nil, err
	}
	it.Images = images
	return it, nil
}

func (r *itemRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	query := `UPDATE items SET is_available = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, available)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFound("item not found")
	}
	return nil
}
