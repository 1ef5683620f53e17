package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"psmigrate/internal/jsonl"
	"psmigrate/internal/sku"
)

// go run cmd/skucheck/main.go -in=dump/shopify_products.jsonl
func main() {
	in := flag.String("in", "dump/shopify_products.jsonl", "Arquivo JSONL gerado pela migração")
	flag.Parse()

	products, err := jsonl.ReadFile(*in)
	if err != nil {
		log.Fatalf("Erro ao ler %s: %v", *in, err)
	}

	dups := sku.Duplicates(products)
	if len(dups) == 0 {
		log.Printf("%d produtos, nenhum SKU duplicado", len(products))
		return
	}

	skus := make([]string, 0, len(dups))
	for s := range dups {
		skus = append(skus, s)
	}
	sort.Strings(skus)
	for _, s := range skus {
		fmt.Printf("%s\t%d\n", s, dups[s])
	}
	log.Printf("%d SKUs duplicados", len(dups))
	os.Exit(1)
}
