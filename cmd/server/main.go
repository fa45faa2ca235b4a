package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/config"
	"github.com/johnolamide/echo-mcp-server/internal/handler"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
	"github.com/johnolamide/echo-mcp-server/internal/router"
	"github.com/johnolamide/echo-mcp-server/internal/service"
	"github.com/johnolamide/echo-mcp-server/internal/ws"
	"github.com/johnolamide/echo-mcp-server/pkg/jwt"
	"github.com/johnolamide/echo-mcp-server/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg := config.Load()
	logger.Init(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("port", cfg.ServerPort).Msg("starting echo-mcp-server")

	db, err := repository.Connect(cfg.PostgresDSN())
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Revocation checks fail closed, so token validation rejects every
		// request until redis is reachable again. Cross-instance chat fan-out
		// is also down; unauthenticated routes keep serving.
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).
			Msg("redis unreachable, authenticated routes will be rejected until it recovers")
	}

	tokens := jwt.NewTokenManager(
		cfg.JWTSecretKey,
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLDays)*24*time.Hour,
		rdb,
	)

	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	services := repository.NewServiceRepository(db)

	registry := ws.NewRegistry()
	relay := ws.NewRelay(registry, rdb)

	authSvc := service.NewAuthService(users, tokens, cfg.AdminSecretKey)
	chatSvc := service.NewChatService(messages, users, relay, registry)
	registrySvc := service.NewServiceRegistry(services)
	adminSvc := service.NewAdminService(users, messages, services)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go relay.Run(ctx)

	engine := router.New(cfg, router.Deps{
		Auth:     handler.NewAuthHandler(authSvc),
		Chat:     handler.NewChatHandler(chatSvc, registry),
		Services: handler.NewServiceHandler(registrySvc),
		Admin:    handler.NewAdminHandler(adminSvc),
		Health:   handler.NewHealthHandler(db, rdb),
		WsChat:   ws.Handler(registry, relay, chatSvc, users, tokens),
		Tokens:   tokens,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("closing redis client")
	}
	return nil
}
