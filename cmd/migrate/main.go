package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"

	"psmigrate/internal/cache"
	"psmigrate/internal/config"
	"psmigrate/internal/db"
	"psmigrate/internal/metafield"
	"psmigrate/internal/observability"
	"psmigrate/internal/pipeline"
	"psmigrate/internal/prestashop"
	"psmigrate/internal/repository"
	"psmigrate/internal/transform"
)

// go run cmd/migrate/main.go -limit=50
// go run cmd/migrate/main.go -sample -limit=10 -out=dump/sample.jsonl
// go run cmd/migrate/main.go -id=2126
// go run cmd/migrate/main.go -run=2f1c9a7e-5b0d-4c7a-9a43-0d6f1b2f8e11
func main() {
	limit := flag.Int("limit", 0, "Máximo de produtos (0 = todos)")
	sample := flag.Bool("sample", false, "Seleciona produtos aleatórios em vez dos primeiros")
	id := flag.Int("id", 0, "Migra apenas o produto com este ID")
	out := flag.String("out", "", "Arquivo JSONL de saída")
	rulesPath := flag.String("rules", "", "Arquivo YAML com regras de metafields")
	runArg := flag.String("run", "", "Reprocessa os snapshots gravados por um run anterior (UUID)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *out != "" {
		cfg.OutputPath = *out
	}
	if *rulesPath != "" {
		cfg.RulesPath = *rulesPath
	}

	observability.Start(cfg.MetricsPort)

	rules, err := metafield.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("Erro ao carregar regras: %v", err)
	}

	store := cache.Open(cfg.RedisURL)
	if rs, ok := store.(*cache.RedisStore); ok {
		defer rs.Close()
	}
	client := prestashop.NewClient(cfg.APIURL, cfg.APIKey, store)

	ctx := context.Background()
	opts := pipeline.Options{
		Query:   prestashop.Query{ID: *id, Limit: *limit, Sample: *sample},
		Source:  client,
		Catalog: client,
		Transform: transform.Options{
			ShopURL:         cfg.ShopURL,
			DefaultVendor:   cfg.DefaultVendor,
			CurrencyCode:    cfg.CurrencyCode,
			SkipProductIDs:  cfg.SkipProductIDs,
			SkipCategoryIDs: cfg.SkipCategoryIDs,
		},
		Rules:      rules,
		SKUPrefix:  cfg.SKUPrefix,
		OutputPath: cfg.OutputPath,
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
		}
		defer sqlDB.Close()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
		}
		defer pool.Close()

		raw := &repository.RawRepository{DB: sqlDB}
		payloads := &repository.PayloadRepository{DB: pool}
		if err := raw.EnsureSchema(ctx); err != nil {
			log.Fatalf("Erro ao criar tabela de snapshots: %v", err)
		}
		if err := payloads.EnsureSchema(ctx); err != nil {
			log.Fatalf("Erro ao criar tabela de payloads: %v", err)
		}
		opts.Snapshots = raw
		opts.Payloads = payloads

		if *runArg != "" {
			runID, err := uuid.Parse(*runArg)
			if err != nil {
				log.Fatalf("Run inválido %q: %v", *runArg, err)
			}
			opts.Source = &pipeline.ReplaySource{Snapshots: raw, RunID: runID, Language: client.Language}
			// Os snapshots já estão gravados no run original.
			opts.Snapshots = nil
		}
	} else if *runArg != "" {
		log.Fatal("-run requer DATABASE_URL")
	}

	rep, err := pipeline.Run(ctx, opts)
	if err != nil {
		log.Fatalf("Migração abortada: %v", err)
	}
	log.Printf("Run %s: %d produtos gravados em %s", rep.RunID, len(rep.Products), cfg.OutputPath)
}
