package domain

import "context"

// MaxSeats bounds the size of a single cinema.
const MaxSeats = 100_000

// Seat is one position in a cinema, identified by its 1-based ID.
type Seat struct {
	ID          int
	CinemaID    int
	IsPurchased bool
}

// Cinema holds its seats in position order. Adjacency for pair purchases
// is defined by that order, not by seat IDs.
type Cinema struct {
	ID    int
	Seats []Seat
}

// NewSeats returns numSeats free seats with IDs 1..numSeats.
func NewSeats(cinemaID, numSeats int) []Seat {
	seats := make([]Seat, numSeats)

	for i := range seats {
		seats[i] = Seat{
			ID:       i + 1,
			CinemaID: cinemaID,
		}
	}

	return seats
}

// FirstFreePair returns the index of the first seat whose right neighbour is
// also free, or -1 when the cinema has no such pair.
func FirstFreePair(seats []Seat) int {
	for i := 0; i+1 < len(seats); i++ {
		if !seats[i].IsPurchased && !seats[i+1].IsPurchased {
			return i
		}
	}

	return -1
}

// CinemaRepository is the registry of cinemas. Implementations must make
// each purchase atomic per cinema.
type CinemaRepository interface {
	Create(ctx context.Context, numSeats int) (int, error)
	GetByID(ctx context.Context, cinemaID int) (*Cinema, error)
	PurchaseSeat(ctx context.Context, cinemaID, seatID int) (*Seat, error)
	PurchaseConsecutiveSeats(ctx context.Context, cinemaID int) ([]Seat, error)
}
