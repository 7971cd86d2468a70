// Package booking validates booking requests and runs them against a cinema
// registry, recording a span per operation and counters for what was sold.
package booking

import (
	"context"
	"fmt"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/metinatakli/cinema-seat-booking/internal/booking"

type Engine struct {
	repo   domain.CinemaRepository
	tracer trace.Tracer

	cinemasCreated metric.Int64Counter
	seatsPurchased metric.Int64Counter
}

func NewEngine(repo domain.CinemaRepository) (*Engine, error) {
	meter := otel.Meter(instrumentationName)

	cinemasCreated, err := meter.Int64Counter(
		"booking.cinemas.created",
		metric.WithDescription("Number of cinemas created"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cinemas counter: %w", err)
	}

	seatsPurchased, err := meter.Int64Counter(
		"booking.seats.purchased",
		metric.WithDescription("Number of seats sold"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create seats counter: %w", err)
	}

	return &Engine{
		repo:           repo,
		tracer:         otel.Tracer(instrumentationName),
		cinemasCreated: cinemasCreated,
		seatsPurchased: seatsPurchased,
	}, nil
}

func (e *Engine) CreateCinema(ctx context.Context, numSeats int) (int, error) {
	ctx, span := e.tracer.Start(ctx, "booking.CreateCinema", trace.WithAttributes(
		attribute.Int("cinema.num_seats", numSeats),
	))
	defer span.End()

	if numSeats < 1 {
		return 0, endWithError(span, invalidInput("number of seats must be a positive integer"))
	}

	if numSeats > domain.MaxSeats {
		return 0, endWithError(span, invalidInput(fmt.Sprintf("number of seats must be at most %d", domain.MaxSeats)))
	}

	cinemaID, err := e.repo.Create(ctx, numSeats)
	if err != nil {
		return 0, endWithError(span, err)
	}

	span.SetAttributes(attribute.Int("cinema.id", cinemaID))
	e.cinemasCreated.Add(ctx, 1)

	return cinemaID, nil
}

func (e *Engine) GetCinema(ctx context.Context, cinemaID int) (*domain.Cinema, error) {
	ctx, span := e.tracer.Start(ctx, "booking.GetCinema", trace.WithAttributes(
		attribute.Int("cinema.id", cinemaID),
	))
	defer span.End()

	if cinemaID < 1 {
		return nil, endWithError(span, invalidInput("cinema ID must be greater than zero"))
	}

	cinema, err := e.repo.GetByID(ctx, cinemaID)
	if err != nil {
		return nil, endWithError(span, err)
	}

	return cinema, nil
}

func (e *Engine) PurchaseSeat(ctx context.Context, cinemaID, seatID int) (*domain.Seat, error) {
	ctx, span := e.tracer.Start(ctx, "booking.PurchaseSeat", trace.WithAttributes(
		attribute.Int("cinema.id", cinemaID),
		attribute.Int("seat.id", seatID),
	))
	defer span.End()

	if cinemaID < 1 {
		return nil, endWithError(span, invalidInput("cinema ID must be greater than zero"))
	}

	if seatID < 1 {
		return nil, endWithError(span, invalidInput("seat ID must be greater than zero"))
	}

	seat, err := e.repo.PurchaseSeat(ctx, cinemaID, seatID)
	if err != nil {
		return nil, endWithError(span, err)
	}

	e.seatsPurchased.Add(ctx, 1, metric.WithAttributes(attribute.String("purchase.kind", "single")))

	return seat, nil
}

// PurchaseConsecutiveSeats sells the first pair of adjacent free seats, scanning
// from the start of the cinema on every call.
func (e *Engine) PurchaseConsecutiveSeats(ctx context.Context, cinemaID int) ([]domain.Seat, error) {
	ctx, span := e.tracer.Start(ctx, "booking.PurchaseConsecutiveSeats", trace.WithAttributes(
		attribute.Int("cinema.id", cinemaID),
	))
	defer span.End()

	if cinemaID < 1 {
		return nil, endWithError(span, invalidInput("cinema ID must be greater than zero"))
	}

	seats, err := e.repo.PurchaseConsecutiveSeats(ctx, cinemaID)
	if err != nil {
		return nil, endWithError(span, err)
	}

	e.seatsPurchased.Add(ctx, int64(len(seats)), metric.WithAttributes(attribute.String("purchase.kind", "consecutive")))

	return seats, nil
}

func invalidInput(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, reason)
}

func endWithError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
