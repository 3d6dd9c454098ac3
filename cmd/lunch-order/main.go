package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/lunch-order/internal/clock"
	"github.com/vasiliy-maslov/lunch-order/internal/command"
	"github.com/vasiliy-maslov/lunch-order/internal/config"
	"github.com/vasiliy-maslov/lunch-order/internal/db"
	commandHttp "github.com/vasiliy-maslov/lunch-order/internal/handler/http"
	"github.com/vasiliy-maslov/lunch-order/internal/mail"
	"github.com/vasiliy-maslov/lunch-order/internal/order"
	"github.com/vasiliy-maslov/lunch-order/internal/render"
	"github.com/vasiliy-maslov/lunch-order/internal/transport"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "lunch-order").Logger()

	log.Info().Msg("Lunch order service starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Debug().Str("storage", cfg.Storage.Driver).Bool("send_by_mail", cfg.Order.SendByMail).Msg("Configuration loaded")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve timezone")
	}
	clk := clock.NewSystem(loc)

	ctx := context.Background()

	var orderRepository order.Repository
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory order storage, orders are lost on restart")
		orderRepository = order.NewMemoryRepository()
	default:
		pg, err := db.New(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pg.Close()

		if err := pg.ApplyMigrations(cfg.Postgres); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		orderRepository = order.NewRepository(pg.DB)
	}

	orderSvc := order.NewService(orderRepository, clk)

	renderer, err := render.NewTemplateRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load mail templates")
	}

	var mailer command.Mailer
	if cfg.Order.SendByMail {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.SMTP.Timeout,
		})
	}

	commandRouter, err := command.NewRouter(cfg.RouterSettings(), orderSvc, renderer, mailer, clk)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid order settings")
	}

	commandHandler := commandHttp.NewCommandHandler(commandRouter)
	router := transport.NewRouter(commandHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
