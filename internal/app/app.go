package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/metinatakli/cinema-seat-booking/internal/booking"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/repository"
	appvalidator "github.com/metinatakli/cinema-seat-booking/internal/validator"
	"github.com/metinatakli/cinema-seat-booking/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "cinema-booking-api"

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate
	engine    *booking.Engine
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	Redis            RedisConfig
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	KeyTTL       time.Duration
}

func NewApp(cfg Config, logger *slog.Logger, validator *validator.Validate, engine *booking.Engine) *Application {
	return &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		engine:    engine,
	}
}

func Run() error {
	// a missing .env file is fine, flags and the environment still apply
	_ = godotenv.Load()

	var cfg Config

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	flag.StringVar(&cfg.Env, "env", envString("APP_ENV", "dev"), "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("REDIS_URL"), "Redis address; the registry stays in process memory when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")
	flag.DurationVar(&cfg.Redis.KeyTTL, "redis-key-ttl", 0, "Lifetime of cinema keys in Redis (0 keeps them forever)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{
		config:    cfg,
		logger:    logger,
		validator: appvalidator.NewValidator(),
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		app.logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	repo, closeRepo, err := app.newCinemaRepository()
	if err != nil {
		app.logger.Error("failed to initialize cinema registry", "error", err)
		return err
	}
	defer closeRepo()

	engine, err := booking.NewEngine(repo)
	if err != nil {
		return err
	}

	app.engine = engine

	return app.run()
}

func (app *Application) newCinemaRepository() (domain.CinemaRepository, func(), error) {
	if app.config.Redis.URL == "" {
		app.logger.Info("using in-memory cinema registry")

		return repository.NewMemoryCinemaRepository(), func() {}, nil
	}

	redisClient, err := NewRedisClient(app.config)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}

	err = errors.Join(
		redisotel.InstrumentTracing(redisClient),
		redisotel.InstrumentMetrics(redisClient),
	)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to instrument redis client: %w", err)
	}

	app.logger.Info("using redis cinema registry", "addr", app.config.Redis.URL)

	return repository.NewRedisCinemaRepository(redisClient, app.config.Redis.KeyTTL), closeFn, nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return n
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/cinemas", func(r chi.Router) {
		r.Post("/", app.CreateCinemaHandler)

		r.Route("/{cinemaId}", func(r chi.Router) {
			r.Get("/", app.GetCinemaHandler)
			r.Post("/purchase/{seatId}", app.PurchaseSeatHandler)
			r.Post("/purchase-consecutive", app.PurchaseConsecutiveSeatsHandler)
		})
	})

	return r
}
