package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/config"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/dto"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/generator"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/publisher"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/router"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/runner"
)

// Inter-tick delay, measured from the end of one tick to the start of the
// next. Deliberately not configurable.
const publishInterval = 10 * time.Second

// Civil timezone for the plant's local timestamps and lot numbers.
const plantTimezone = "America/Chicago"

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Info().Msg("CESMII work order publisher demo")
	log.Info().Str("profile", dto.WorkOrderProfileURL).Msg("work order profile")
	log.Info().Str("profile", dto.FeedIngredientProfileURL).Msg("feed ingredient profile")
	log.Info().
		Str("host", cfg.MQTTHost).
		Int("port", cfg.MQTTPort).
		Str("topic", cfg.PublishTopic).
		Msg("MQTT broker")

	loc, err := time.LoadLocation(plantTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", plantTimezone).Msg("failed to load plant timezone")
	}

	catalog := model.DemoCatalog()
	for _, p := range catalog {
		log.Info().
			Str("product", p.ProductName).
			Int("number", p.ProductNumber).
			Int("ingredients", len(p.Ingredients)).
			Msg("demo product loaded")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := generator.New(catalog, rng, time.Now, loc)

	pub := publisher.New(publisher.Config{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		Topic:    cfg.PublishTopic,
	})

	// Optional internal status listener (health + prometheus metrics)
	var statusSrv *http.Server
	if cfg.StatusPort > 0 {
		statusSrv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.StatusPort),
			Handler:      router.New(cfg, pub, gen),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Int("port", cfg.StatusPort).Msg("status listener started")
			if err := statusSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("status listener error")
			}
		}()
	}

	// Graceful shutdown on SIGINT / SIGTERM — the loop finishes its current
	// tick, disconnects, and exits cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(gen, pub, publishInterval)
	if err := r.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("publisher terminated")
	}

	if statusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = statusSrv.Shutdown(shutdownCtx)
	}
	log.Info().Msg("disconnected from MQTT broker, goodbye")
}
