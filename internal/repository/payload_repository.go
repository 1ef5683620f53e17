package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"psmigrate/internal/model"
)

// BatchSender is satisfied by *pgxpool.Pool and *pgx.Conn.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PayloadRepository stores the final productSet inputs of a run, one row per handle.
type PayloadRepository struct {
	DB BatchSender
}

const upsertPayload = `
	INSERT INTO shopify_product_payload (run_id, handle, source_id, payload)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (run_id, handle) DO UPDATE SET source_id = EXCLUDED.source_id, payload = EXCLUDED.payload
`

func (r *PayloadRepository) EnsureSchema(ctx context.Context) error {
	b := &pgx.Batch{}
	b.Queue(`
		CREATE TABLE IF NOT EXISTS shopify_product_payload (
			run_id     UUID NOT NULL,
			handle     TEXT NOT NULL,
			source_id  INTEGER NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, handle)
		)
	`)
	return r.DB.SendBatch(ctx, b).Close()
}

func (r *PayloadRepository) SavePayloads(ctx context.Context, runID uuid.UUID, products []*model.ProductSet) error {
	if len(products) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("payload %s: %w", p.Handle, err)
		}
		b.Queue(upsertPayload, runID, p.Handle, p.SourceID, payload)
	}

	if err := r.DB.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("save %d payloads: %w", len(products), err)
	}
	return nil
}
