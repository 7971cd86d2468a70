package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

type memoryCinema struct {
	mu    sync.Mutex
	id    int
	seats []domain.Seat
}

// MemoryCinemaRepository keeps every cinema in process memory. Purchases on a
// cinema are serialized by that cinema's lock, so a seat is sold at most once
// and a pair scan is atomic with marking the pair.
type MemoryCinemaRepository struct {
	mu      sync.RWMutex
	nextID  int
	cinemas map[int]*memoryCinema
}

func NewMemoryCinemaRepository() *MemoryCinemaRepository {
	return &MemoryCinemaRepository{
		nextID:  1,
		cinemas: make(map[int]*memoryCinema),
	}
}

func (m *MemoryCinemaRepository) Create(ctx context.Context, numSeats int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.cinemas[id] = &memoryCinema{
		id:    id,
		seats: domain.NewSeats(id, numSeats),
	}
	m.nextID++

	return id, nil
}

func (m *MemoryCinemaRepository) GetByID(ctx context.Context, cinemaID int) (*domain.Cinema, error) {
	cinema, err := m.lookup(cinemaID)
	if err != nil {
		return nil, err
	}

	cinema.mu.Lock()
	defer cinema.mu.Unlock()

	return &domain.Cinema{
		ID:    cinema.id,
		Seats: slices.Clone(cinema.seats),
	}, nil
}

func (m *MemoryCinemaRepository) PurchaseSeat(ctx context.Context, cinemaID, seatID int) (*domain.Seat, error) {
	cinema, err := m.lookup(cinemaID)
	if err != nil {
		return nil, err
	}

	cinema.mu.Lock()
	defer cinema.mu.Unlock()

	// seat i lives at index i-1; cinemas are never resized
	if seatID < 1 || seatID > len(cinema.seats) {
		return nil, domain.ErrSeatNotFound
	}

	seat := &cinema.seats[seatID-1]
	if seat.IsPurchased {
		return nil, domain.ErrSeatAlreadyPurchased
	}

	seat.IsPurchased = true
	purchased := *seat

	return &purchased, nil
}

func (m *MemoryCinemaRepository) PurchaseConsecutiveSeats(ctx context.Context, cinemaID int) ([]domain.Seat, error) {
	cinema, err := m.lookup(cinemaID)
	if err != nil {
		return nil, err
	}

	cinema.mu.Lock()
	defer cinema.mu.Unlock()

	i := domain.FirstFreePair(cinema.seats)
	if i < 0 {
		return nil, domain.ErrNoConsecutiveSeats
	}

	cinema.seats[i].IsPurchased = true
	cinema.seats[i+1].IsPurchased = true

	return slices.Clone(cinema.seats[i : i+2]), nil
}

func (m *MemoryCinemaRepository) lookup(cinemaID int) (*memoryCinema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cinema, ok := m.cinemas[cinemaID]
	if !ok {
		return nil, domain.ErrCinemaNotFound
	}

	return cinema, nil
}
