package service

import (
	"context"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"
)

type lockerService struct {
	lockers repository.LockerRepository
}

func NewLockerService(lockers repository.LockerRepository) LockerService {
	return &lockerService{lockers: lockers}
}

func (s *lockerService) ListAvailableLockers(ctx context.Context, kioskID string, size domain.LockerSize) ([]domain.Locker, error) {
	return s.lockers.ListAvailable(ctx, kioskID, size)
}
