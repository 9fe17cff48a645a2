package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mehmetcc/bearer/internal/auth"
	"github.com/mehmetcc/bearer/internal/config"
	"github.com/mehmetcc/bearer/internal/logger"
	"github.com/mehmetcc/bearer/internal/server"
	"github.com/mehmetcc/bearer/internal/token"
	"go.uber.org/zap"
)

func main() {
	// bootstrap logger, replaced once the config is read
	bootLogger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	// load config (.env is optional)
	cfg, err := config.LoadConfig(bootLogger)
	if err != nil {
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogConfig)
	if err != nil {
		bootLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// token codec owns the signing secret from here on
	tokens, err := token.NewTokenService(log, cfg.JWTConfig)
	if err != nil {
		log.Fatal("failed to initialize token service", zap.Error(err))
	}

	extractor := auth.NewExtractor(tokens, log)
	authHandler := auth.NewAuthenticationHandler(tokens, extractor, log)
	router := server.NewRouter(log, authHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("application started",
		zap.String("addr", cfg.AppConfig.Addr),
		zap.Duration("token_ttl", tokens.TTL()),
	)
	if err := server.New(cfg.AppConfig, router, log).Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}
