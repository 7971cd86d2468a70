package mocks

import (
	"context"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCinemaRepo struct {
	mock.Mock
}

func (m *MockCinemaRepo) Create(ctx context.Context, numSeats int) (int, error) {
	args := m.Called(ctx, numSeats)
	return args.Int(0), args.Error(1)
}

func (m *MockCinemaRepo) GetByID(ctx context.Context, cinemaID int) (*domain.Cinema, error) {
	args := m.Called(ctx, cinemaID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Cinema), args.Error(1)
}

func (m *MockCinemaRepo) PurchaseSeat(ctx context.Context, cinemaID, seatID int) (*domain.Seat, error) {
	args := m.Called(ctx, cinemaID, seatID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockCinemaRepo) PurchaseConsecutiveSeats(ctx context.Context, cinemaID int) ([]domain.Seat, error) {
	args := m.Called(ctx, cinemaID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Seat), args.Error(1)
}
