package main

import (
	"flag"
	"fmt"
	"log"

	"psmigrate/internal/config"
	"psmigrate/internal/jsonl"
	"psmigrate/internal/metafield"
)

// go run cmd/metakeys/main.go -in=dump/shopify_products.jsonl
// Mostra os metafields usados no arquivo que ainda não têm definição no Shopify.
func main() {
	in := flag.String("in", "dump/shopify_products.jsonl", "Arquivo JSONL gerado pela migração")
	rulesPath := flag.String("rules", "", "Arquivo YAML com regras de metafields")
	flag.Parse()

	cfg := config.Load()
	if *rulesPath != "" {
		cfg.RulesPath = *rulesPath
	}
	rules, err := metafield.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("Erro ao carregar regras: %v", err)
	}

	products, err := jsonl.ReadFile(*in)
	if err != nil {
		log.Fatalf("Erro ao ler %s: %v", *in, err)
	}

	missing := metafield.UndefinedKeys(products, rules)
	for _, k := range missing {
		fmt.Println(k)
	}
	log.Printf("%d metafields sem definição", len(missing))
}
