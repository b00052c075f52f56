package postgres

import (
	"database/sql"

	"kioskrent-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.LockerRepository
	repository.TransactionRepository
	repository.VerificationRepository
	repository.ItemRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		LockerRepository:       NewLockerRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		VerificationRepository: NewVerificationRepository(db),
		ItemRepository:         NewItemRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
