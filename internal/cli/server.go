package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blockchainiq/internal/app"
	"blockchainiq/internal/bank"
	"blockchainiq/internal/config"
	"blockchainiq/internal/infra/memory"
	pgloader "blockchainiq/internal/infra/postgres"
	redisstore "blockchainiq/internal/infra/redis"
	"blockchainiq/internal/logger"
	transport "blockchainiq/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logger)
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.BankLoader
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
		seed := func(ctx context.Context) error { return seedEmbeddedBank(ctx, cfg, log) }
		if err := ensureBank(ctx, loader, cfg.Quiz.BankID, seed, log); err != nil {
			return err
		}
	} else {
		embedded, err := bank.Default()
		if err != nil {
			return err
		}
		loader = memory.NewStaticBankLoader(embedded)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisstore.NewBankRepository(redisClient, loader, bankTTL, log)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	// Fail at boot rather than on the first quiz if the bank is missing or too small.
	b, err := bankRepo.GetBank(ctx, cfg.Quiz.BankID)
	if err != nil {
		return err
	}
	if _, err := app.SampleSession(b.Questions, cfg.Quiz.SampleSize, 0); err != nil {
		return err
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}
	service := app.NewQuizService(store, bankRepo,
		app.WithBankID(cfg.Quiz.BankID),
		app.WithSampleSize(cfg.Quiz.SampleSize),
		app.WithLogger(log))

	wsHandler := transport.NewWSHandler(service, transport.WSConfig{
		FeedbackDelay: config.TTLDuration(cfg.Server.FeedbackDelay, 1500*time.Millisecond),
		PublicURL:     cfg.Server.PublicURL,
		KeepSessions:  redisClient != nil,
	}, log)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(bankRepo, cfg.Quiz.BankID, wsHandler, log),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr), zap.Int("bankSize", len(b.Questions)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
