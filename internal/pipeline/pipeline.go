package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"psmigrate/internal/handles"
	"psmigrate/internal/jsonl"
	"psmigrate/internal/metafield"
	"psmigrate/internal/model"
	"psmigrate/internal/observability"
	"psmigrate/internal/prestashop"
	"psmigrate/internal/sku"
	"psmigrate/internal/transform"
)

// Source lists the products to migrate.
type Source interface {
	Products(ctx context.Context, q prestashop.Query) ([]prestashop.Product, error)
}

type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, runID uuid.UUID, products []prestashop.Product) error
}

type PayloadStore interface {
	SavePayloads(ctx context.Context, runID uuid.UUID, products []*model.ProductSet) error
}

type Options struct {
	Query     prestashop.Query
	Source    Source
	Catalog   transform.Catalog
	Transform transform.Options
	Rules     *metafield.Rules
	SKUPrefix string

	// Output receives the JSONL stream. When nil the file at OutputPath is written.
	Output     io.Writer
	OutputPath string

	// Optional persistence.
	Snapshots SnapshotStore
	Payloads  PayloadStore
}

// Report summarizes a run.
type Report struct {
	RunID                uuid.UUID
	Read                 int
	Skipped              int
	SkippedVariants      int
	MetafieldsSuppressed int
	HandlesRenamed       int
	SKUsAssigned         int
	Products             []*model.ProductSet
}

// Run reads, transforms, consolidates, dedupes, backfills and serializes one batch.
// The first error aborts the run and nothing is written.
func Run(ctx context.Context, opts Options) (*Report, error) {
	rules := opts.Rules
	if rules == nil {
		var err error
		if rules, err = metafield.DefaultRules(); err != nil {
			return nil, err
		}
	}

	rep := &Report{RunID: uuid.New()}
	log.Printf("Iniciando migração (run %s)", rep.RunID)

	products, err := opts.Source.Products(ctx, opts.Query)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	rep.Read = len(products)
	log.Printf("%d produtos lidos", rep.Read)

	if opts.Snapshots != nil {
		if err := opts.Snapshots.SaveSnapshots(ctx, rep.RunID, products); err != nil {
			return nil, fmt.Errorf("save snapshots: %w", err)
		}
	}

	tr := transform.New(opts.Catalog, opts.Transform)
	consolidator := metafield.NewConsolidator(rules)

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := tr.Transform(ctx, p)
		if err != nil {
			return nil, err
		}
		if out == nil {
			rep.Skipped++
			observability.ProductsSkipped.Inc()
			continue
		}

		res := consolidator.Apply(out.Metafields)
		out.Metafields = res.Metafields
		for _, key := range res.Suppressed {
			log.Printf("Produto %d: metafield %q descartado (múltiplos valores)", p.ID, key)
		}
		rep.MetafieldsSuppressed += len(res.Suppressed)
		observability.MetafieldsSuppressed.Add(float64(len(res.Suppressed)))

		rep.Products = append(rep.Products, out)
		observability.ProductsTransformed.Inc()
	}
	rep.SkippedVariants = tr.SkippedVariants
	observability.VariantsSkipped.Add(float64(tr.SkippedVariants))

	rep.HandlesRenamed = handles.NewRegistry().Dedupe(rep.Products)
	observability.HandlesRenamed.Add(float64(rep.HandlesRenamed))

	rep.SKUsAssigned = sku.NewBackfiller(opts.SKUPrefix).Backfill(rep.Products)
	observability.SKUsAssigned.Add(float64(rep.SKUsAssigned))

	if opts.Payloads != nil {
		if err := opts.Payloads.SavePayloads(ctx, rep.RunID, rep.Products); err != nil {
			return nil, fmt.Errorf("save payloads: %w", err)
		}
	}

	if opts.Output != nil {
		err = jsonl.Write(opts.Output, rep.Products)
	} else {
		err = jsonl.WriteFile(opts.OutputPath, rep.Products)
	}
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	log.Printf("Migração concluída: %d produtos, %d ignorados, %d handles renomeados, %d SKUs gerados",
		len(rep.Products), rep.Skipped, rep.HandlesRenamed, rep.SKUsAssigned)
	return rep, nil
}
