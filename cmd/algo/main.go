package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/bastion/internal/algo"
	"github.com/freeeve/bastion/internal/auth"
	"github.com/freeeve/bastion/internal/config"
	"github.com/freeeve/bastion/internal/journal"
	"github.com/freeeve/bastion/internal/logger"
	"github.com/freeeve/bastion/internal/repository/postgres"
	redisrepo "github.com/freeeve/bastion/internal/repository/redis"
	"github.com/freeeve/bastion/internal/repository/sqlite"
	"github.com/freeeve/bastion/internal/strategy"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config invalid")
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Profile invalid")
	}
	log.Info().Str("matchId", cfg.MatchID).Str("profile", profile.Name).Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	opts := []algo.Option{algo.WithMatchID(cfg.MatchID)}

	// Redis (optional): resume state after a restart.
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		opts = append(opts, algo.WithStateStore(redisClient))
	}

	// Database (optional): per-turn decision records.
	driver, dsn, err := cfg.Database()
	if err != nil {
		log.Fatal().Err(err).Msg("Database config invalid")
	}
	switch driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Database migration failed")
		}
		opts = append(opts, algo.WithTurnJournal(postgres.NewTurnRepo(db)))
	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("Database open failed")
		}
		defer repo.Close()
		opts = append(opts, algo.WithTurnJournal(repo))
	}

	// Journal (optional): raw lines for offline replay.
	if cfg.JournalDir != "" {
		jw, err := journal.Create(cfg.JournalDir, cfg.MatchID)
		if err != nil {
			log.Fatal().Err(err).Msg("Journal create failed")
		}
		defer func() {
			if err := jw.Close(); err != nil {
				log.Warn().Err(err).Msg("Journal close failed")
			}
		}()
		opts = append(opts, algo.WithRecorder(jw))
		log.Info().Str("path", jw.Path()).Msg("Journaling engine messages")
	}

	transport, err := dial(ctx, cfg, profile.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("Engine link failed")
	}
	defer transport.Close()

	sel := strategy.NewSelector(profile, strategy.WithSeed(cfg.Seed))
	if err := algo.New(sel, opts...).Run(ctx, transport); err != nil {
		log.Error().Err(err).Msg("Algo stopped")
		return
	}
}

func loadProfile(cfg *config.Config) (strategy.Profile, error) {
	if cfg.ProfileFile != "" {
		return strategy.LoadProfile(cfg.ProfileFile)
	}
	return strategy.ProfileByName(cfg.Profile)
}

func dial(ctx context.Context, cfg *config.Config, profile string) (algo.Transport, error) {
	if cfg.EngineURL == "" {
		return algo.NewStdio(os.Stdin, os.Stdout), nil
	}
	var token string
	if cfg.EngineSecret != "" {
		signer, err := auth.NewTokenSigner(cfg.EngineSecret)
		if err != nil {
			return nil, err
		}
		token, err = signer.MatchToken(cfg.MatchID, profile)
		if err != nil {
			return nil, err
		}
	}
	return algo.DialWebsocket(ctx, cfg.EngineURL, token)
}
