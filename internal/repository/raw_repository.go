package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"psmigrate/internal/prestashop"
)

// RawSnapshot is a source product as it was read during a run.
type RawSnapshot struct {
	RunID     uuid.UUID
	ProductID int
	Raw       []byte
}

// RawRepository keeps the web service records of every run.
type RawRepository struct {
	DB *sql.DB
}

func (r *RawRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS prestashop_product_raw (
			run_id     UUID NOT NULL,
			product_id INTEGER NOT NULL,
			raw        JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, product_id)
		)
	`)
	return err
}

func (r *RawRepository) SaveSnapshots(ctx context.Context, runID uuid.UUID, products []prestashop.Product) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prestashop_product_raw (run_id, product_id, raw)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, product_id) DO UPDATE SET raw = EXCLUDED.raw, fetched_at = now()
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		if len(p.Raw) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, runID, p.ID, string(p.Raw)); err != nil {
			return fmt.Errorf("snapshot product %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (r *RawRepository) List(ctx context.Context, runID uuid.UUID) ([]RawSnapshot, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT run_id, product_id, raw
		FROM prestashop_product_raw
		WHERE run_id = $1
		ORDER BY product_id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []RawSnapshot
	for rows.Next() {
		var s RawSnapshot
		if err := rows.Scan(&s.RunID, &s.ProductID, &s.Raw); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
