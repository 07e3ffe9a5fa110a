package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/arthit/accounts-api/internal/config"
	"github.com/arthit/accounts-api/internal/handler"
	"github.com/arthit/accounts-api/internal/mailer"
	"github.com/arthit/accounts-api/internal/repository"
	"github.com/arthit/accounts-api/internal/session"
	"github.com/arthit/accounts-api/internal/token"
	"github.com/arthit/accounts-api/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	registry := session.NewMemoryRegistry()
	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessExpiry:  cfg.AccessTokenExpiry,
		EmailExpiry:   cfg.EmailTokenExpiry,
		Issuer:        cfg.TokenIssuer,
	})
	smtpMailer := mailer.NewMailer(&logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, registry, tokens, smtpMailer, cfg)
	confirmEmailUsecase := usecase.NewConfirmEmailUsecase(userRepo, tokens)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, tokens, smtpMailer, cfg)
	userUsecase := usecase.NewUserUsecase(userRepo)

	h := handler.New(authUsecase, confirmEmailUsecase, passwordResetUsecase, userUsecase, tokens, cfg)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h.Router(&logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down server cleanly")
	}
}
