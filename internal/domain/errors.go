package domain

import "errors"

// Errors returned by the booking engine and cinema repositories.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrCinemaNotFound       = errors.New("cinema not found")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrSeatAlreadyPurchased = errors.New("seat already purchased")
	ErrNoConsecutiveSeats   = errors.New("no consecutive seats available")
)
