package main

import (
	"context"
	"fmt"
	"log"

	"psmigrate/internal/cache"
	"psmigrate/internal/config"
	"psmigrate/internal/metafield"
	"psmigrate/internal/prestashop"
)

// go run cmd/features/main.go
// Lista as características do catálogo com a chave de metafield que cada uma recebe.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	client := prestashop.NewClient(cfg.APIURL, cfg.APIKey, cache.Open(cfg.RedisURL))
	features, err := client.Features(context.Background())
	if err != nil {
		log.Fatalf("Erro ao buscar características: %v", err)
	}

	for _, f := range features {
		fmt.Printf("%d\t%s\t%s\n", f.ID, f.Name, metafield.Slugify(f.Name))
	}
	log.Printf("%d características", len(features))
}
