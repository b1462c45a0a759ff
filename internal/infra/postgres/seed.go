package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"blockchainiq/internal/domain"
	"github.com/uptrace/bun"
)

// UpsertBank validates bank and writes it to question_banks.
func UpsertBank(ctx context.Context, db bun.IDB, bank domain.Bank) error {
	if err := domain.ValidateBank(bank); err != nil {
		return err
	}
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO question_banks (id, data, updated_at) VALUES (?, ?::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		bank.ID, string(data))
	if err != nil {
		return fmt.Errorf("upsert bank %s: %w", bank.ID, err)
	}
	return nil
}
