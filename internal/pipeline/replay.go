package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"psmigrate/internal/prestashop"
	"psmigrate/internal/repository"
)

// SnapshotLister returns the raw products stored for a run.
type SnapshotLister interface {
	List(ctx context.Context, runID uuid.UUID) ([]repository.RawSnapshot, error)
}

// ReplaySource reads products from the snapshots of an earlier run instead of the
// web service, so a run can be reproduced after rules change.
type ReplaySource struct {
	Snapshots SnapshotLister
	RunID     uuid.UUID
	Language  int
}

// Products honors q.ID and q.Limit. Sample is ignored: snapshots come back in id order.
func (s *ReplaySource) Products(ctx context.Context, q prestashop.Query) ([]prestashop.Product, error) {
	snapshots, err := s.Snapshots.List(ctx, s.RunID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots of run %s: %w", s.RunID, err)
	}

	var products []prestashop.Product
	for _, snap := range snapshots {
		if q.ID > 0 && snap.ProductID != q.ID {
			continue
		}
		p, err := prestashop.ParseProduct(snap.Raw, s.Language)
		if err != nil {
			return nil, fmt.Errorf("snapshot of product %d: %w", snap.ProductID, err)
		}
		products = append(products, p)
		if q.Limit > 0 && len(products) == q.Limit {
			break
		}
	}
	if q.ID > 0 && len(products) == 0 {
		return nil, fmt.Errorf("product %d in run %s: %w", q.ID, s.RunID, prestashop.ErrNotFound)
	}
	return products, nil
}
