package cli

import (
	"context"
	"errors"

	"blockchainiq/internal/bank"
	"blockchainiq/internal/config"
	"blockchainiq/internal/domain"
	"blockchainiq/internal/infra/memory"
	"blockchainiq/internal/infra/postgres"
	"blockchainiq/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd writes the embedded question bank to Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the embedded question bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logger)
			defer log.Sync()

			if err := runMigrations(cmd.Context(), cfg, log); err != nil {
				return err
			}
			return seedEmbeddedBank(cmd.Context(), cfg, log)
		},
	}
}

func seedEmbeddedBank(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	b, err := bank.Default()
	if err != nil {
		return err
	}
	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.UpsertBank(ctx, db, b); err != nil {
		return err
	}
	log.Info("question bank seeded", zap.String("bankId", b.ID), zap.Int("questions", len(b.Questions)))
	return nil
}

// ensureBank seeds the embedded bank when bankID names it and the loader has no copy yet.
// Other missing banks are left to the caller to report.
func ensureBank(ctx context.Context, loader memory.BankLoader, bankID string, seed func(context.Context) error, log *zap.Logger) error {
	_, err := loader.LoadBank(ctx, bankID)
	if err == nil || !errors.Is(err, domain.ErrBankNotFound) || bankID != bank.DefaultID {
		return nil
	}
	log.Info("question bank missing, seeding embedded bank", zap.String("bankId", bankID))
	return seed(ctx)
}
