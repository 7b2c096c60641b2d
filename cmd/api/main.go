package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/api"
	"example.com/exercisetracker/internal/config"
	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/logger"
	"example.com/exercisetracker/internal/persistence/memory"
	"example.com/exercisetracker/internal/persistence/postgres"
	httptransport "example.com/exercisetracker/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("info", false)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := buildRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise storage")
	}
	defer closeRepo()

	publisher, closePublisher := buildPublisher(cfg, log)
	defer closePublisher()

	opts := []domain.Option{
		domain.WithPublisher(publisher),
		domain.WithLogger(log),
	}
	users := domain.NewUserService(repo, opts...)
	exercises := domain.NewExerciseService(repo, repo, opts...)

	handler := api.NewHandler(users, exercises)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		log.Info().Str("dir", cfg.StaticDir).Msg("serving static files")
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, httptransport.Chain(mux,
		httptransport.RequestID(),
		httptransport.AccessLog(log),
		httptransport.CORS(cfg.CORSAllowedOrigins),
	))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("address", cfg.HTTPAddress).Msg("exercise-tracker listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// buildRepository opens PostgreSQL when a URL is configured and falls back to the embedded memory store.
func buildRepository(ctx context.Context, cfg config.Config, log zerolog.Logger) (domain.Repository, func(), error) {
	if cfg.PostgresURL == "" {
		log.Info().Msg("TRACKER_POSTGRES_URL not set, using in-memory repository")
		repo := memory.NewRepository()
		return repo, repo.Close, nil
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresURL, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	log.Info().Msg("using postgres repository")
	return postgres.NewRepository(pool), pool.Close, nil
}

func buildPublisher(cfg config.Config, log zerolog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopPublisher{}, func() {}
	}
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
	log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing events to kafka")
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka publisher")
		}
	}
}
