package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"psmigrate/internal/cache"
	"psmigrate/internal/config"
	"psmigrate/internal/prestashop"
)

// go run cmd/categories/main.go -out=categories.csv
func main() {
	out := flag.String("out", "categories.csv", "Arquivo CSV de saída")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	client := prestashop.NewClient(cfg.APIURL, cfg.APIKey, cache.Open(cfg.RedisURL))
	categories, err := client.Categories(context.Background())
	if err != nil {
		log.Fatalf("Erro ao buscar categorias: %v", err)
	}
	rows := prestashop.FlattenCategoryTree(prestashop.PruneInactive(prestashop.BuildCategoryTree(categories)))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Erro ao criar %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"id", "name", "level", "parent"})
	for _, r := range rows {
		name := strings.Repeat("  ", r.Level) + r.Name
		w.Write([]string{strconv.Itoa(r.ID), name, strconv.Itoa(r.Level), r.ParentName})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Erro ao gravar %s: %v", *out, err)
	}
	log.Printf("%d categorias gravadas em %s", len(rows), *out)
}
