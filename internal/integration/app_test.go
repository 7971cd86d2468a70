package integration_test

import (
	"log/slog"
	"os"

	"github.com/metinatakli/cinema-seat-booking/internal/app"
	"github.com/metinatakli/cinema-seat-booking/internal/booking"
	"github.com/metinatakli/cinema-seat-booking/internal/repository"
	appvalidator "github.com/metinatakli/cinema-seat-booking/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App   *app.Application
	Repo  *repository.RedisCinemaRepository
	Redis *redis.Client
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRedisCinemaRepository(redisClient, cfg.Redis.KeyTTL)

	engine, err := booking.NewEngine(repo)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	application := app.NewApp(cfg, logger, validator, engine)

	return &TestApp{
		App:   application,
		Repo:  repo,
		Redis: redisClient,
	}, nil
}
