package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/INGMEGANO/PSPVoteBackend/internal/config"
	"github.com/INGMEGANO/PSPVoteBackend/internal/infra"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/router"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
	"github.com/INGMEGANO/PSPVoteBackend/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker pool re-runs the duplicate invariant for cedulas queued by
	// bulk imports. Wired here at the composition root so the pool shares the
	// exact service the HTTP layer uses.
	dispatcher := worker.NewDispatcher(rdb)
	votacionRepo := repository.NewVotacionRepository(db)
	liderRepo := repository.NewLiderRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)
	programaRepo := repository.NewProgramaRepository(db)
	votacionSvc := service.NewVotacionService(votacionRepo, liderRepo, auditoriaRepo, programaRepo, nil)
	worker.StartPool(ctx, rdb, &worker.Handlers{Votaciones: votacionSvc}, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PSPVote backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
