package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	cinemaIDCounterKey = "cinema:next_id"
	cinemaKeyPrefix    = "cinema:"

	errPrefixCinemaNotFound       = "CINEMA_NOT_FOUND"
	errPrefixSeatNotFound         = "SEAT_NOT_FOUND"
	errPrefixSeatAlreadyPurchased = "SEAT_ALREADY_PURCHASED"
	errPrefixNoConsecutiveSeats   = "NO_CONSECUTIVE_SEATS"
)

var createCinemaScript = redis.NewScript(`
	-- KEYS = [id counter]
	-- ARGV = [key prefix, numSeats, ttl milliseconds]

	local id = redis.call("INCR", KEYS[1])
	local key = ARGV[1] .. id

	redis.call("HSET", key, "num_seats", ARGV[2])
	if tonumber(ARGV[3]) > 0 then
		redis.call("PEXPIRE", key, ARGV[3])
	end

	return id
`)

// Seat N is bit N-1 of the seats bitmap. The bitmap inherits the cinema key's TTL.
var purchaseSeatScript = redis.NewScript(`
	-- KEYS = [cinema key, seats bitmap key]
	-- ARGV = [seatID]

	local numSeats = redis.call("HGET", KEYS[1], "num_seats")
	if not numSeats then
		return {err = "CINEMA_NOT_FOUND"}
	end

	local seat = tonumber(ARGV[1])
	if seat < 1 or seat > tonumber(numSeats) then
		return {err = "SEAT_NOT_FOUND"}
	end

	if redis.call("GETBIT", KEYS[2], seat - 1) == 1 then
		return {err = "SEAT_ALREADY_PURCHASED"}
	end

	redis.call("SETBIT", KEYS[2], seat - 1, 1)

	local ttl = redis.call("PTTL", KEYS[1])
	if ttl > 0 then
		redis.call("PEXPIRE", KEYS[2], ttl)
	end

	return seat
`)

var purchaseConsecutiveSeatsScript = redis.NewScript(`
	-- KEYS = [cinema key, seats bitmap key]
	-- returns the ID of the first seat of the purchased pair

	local numSeats = redis.call("HGET", KEYS[1], "num_seats")
	if not numSeats then
		return {err = "CINEMA_NOT_FOUND"}
	end

	for i = 0, tonumber(numSeats) - 2 do
		if redis.call("GETBIT", KEYS[2], i) == 0 and redis.call("GETBIT", KEYS[2], i + 1) == 0 then
			redis.call("SETBIT", KEYS[2], i, 1)
			redis.call("SETBIT", KEYS[2], i + 1, 1)

			local ttl = redis.call("PTTL", KEYS[1])
			if ttl > 0 then
				redis.call("PEXPIRE", KEYS[2], ttl)
			end

			return i + 1
		end
	end

	return {err = "NO_CONSECUTIVE_SEATS"}
`)

// RedisCinemaRepository stores cinemas in Redis so several service instances
// can share one registry. Every mutation is a single Lua script, which makes
// the check-and-set atomic across instances.
type RedisCinemaRepository struct {
	client redis.UniversalClient
	keyTTL time.Duration
}

func NewRedisCinemaRepository(client redis.UniversalClient, keyTTL time.Duration) *RedisCinemaRepository {
	return &RedisCinemaRepository{
		client: client,
		keyTTL: keyTTL,
	}
}

func (r *RedisCinemaRepository) Create(ctx context.Context, numSeats int) (int, error) {
	id, err := createCinemaScript.Run(
		ctx,
		r.client,
		[]string{cinemaIDCounterKey},
		cinemaKeyPrefix,
		numSeats,
		r.keyTTL.Milliseconds(),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to run createCinemaScript: %w", err)
	}

	return id, nil
}

func (r *RedisCinemaRepository) GetByID(ctx context.Context, cinemaID int) (*domain.Cinema, error) {
	pipe := r.client.TxPipeline()
	numSeatsCmd := pipe.HGet(ctx, cinemaKey(cinemaID), "num_seats")
	bitmapCmd := pipe.Get(ctx, seatsKey(cinemaID))

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	numSeats, err := numSeatsCmd.Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCinemaNotFound
		}

		return nil, err
	}

	bitmap, err := bitmapCmd.Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	seats := domain.NewSeats(cinemaID, numSeats)
	for i := range seats {
		seats[i].IsPurchased = bitSet(bitmap, i)
	}

	return &domain.Cinema{
		ID:    cinemaID,
		Seats: seats,
	}, nil
}

func (r *RedisCinemaRepository) PurchaseSeat(ctx context.Context, cinemaID, seatID int) (*domain.Seat, error) {
	keys := []string{cinemaKey(cinemaID), seatsKey(cinemaID)}

	err := purchaseSeatScript.Run(ctx, r.client, keys, seatID).Err()
	if err != nil {
		return nil, toDomainError(err, "purchaseSeatScript")
	}

	return &domain.Seat{
		ID:          seatID,
		CinemaID:    cinemaID,
		IsPurchased: true,
	}, nil
}

func (r *RedisCinemaRepository) PurchaseConsecutiveSeats(ctx context.Context, cinemaID int) ([]domain.Seat, error) {
	keys := []string{cinemaKey(cinemaID), seatsKey(cinemaID)}

	firstSeatID, err := purchaseConsecutiveSeatsScript.Run(ctx, r.client, keys).Int()
	if err != nil {
		return nil, toDomainError(err, "purchaseConsecutiveSeatsScript")
	}

	return []domain.Seat{
		{ID: firstSeatID, CinemaID: cinemaID, IsPurchased: true},
		{ID: firstSeatID + 1, CinemaID: cinemaID, IsPurchased: true},
	}, nil
}

func toDomainError(err error, script string) error {
	switch {
	case redis.HasErrorPrefix(err, errPrefixCinemaNotFound):
		return domain.ErrCinemaNotFound
	case redis.HasErrorPrefix(err, errPrefixSeatNotFound):
		return domain.ErrSeatNotFound
	case redis.HasErrorPrefix(err, errPrefixSeatAlreadyPurchased):
		return domain.ErrSeatAlreadyPurchased
	case redis.HasErrorPrefix(err, errPrefixNoConsecutiveSeats):
		return domain.ErrNoConsecutiveSeats
	default:
		return fmt.Errorf("failed to run %s: %w", script, err)
	}
}

// bitSet reports whether bit i is set, using Redis SETBIT ordering
// (bit 0 is the most significant bit of the first byte).
func bitSet(bitmap []byte, i int) bool {
	b := i / 8
	if b >= len(bitmap) {
		return false
	}

	return bitmap[b]&(0x80>>(i%8)) != 0
}

func cinemaKey(cinemaID int) string {
	return fmt.Sprintf("%s%d", cinemaKeyPrefix, cinemaID)
}

func seatsKey(cinemaID int) string {
	return fmt.Sprintf("%s%d:seats", cinemaKeyPrefix, cinemaID)
}
