package sku

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"psmigrate/internal/model"
)

// Backfiller assigns "<prefix><n>" SKUs to variants that have none.
type Backfiller struct {
	prefix  string
	pattern *regexp.Regexp
}

func NewBackfiller(prefix string) *Backfiller {
	return &Backfiller{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `(\d+)$`),
	}
}

// Highest returns the largest number used by a generated SKU in products, or 0.
func (b *Backfiller) Highest(products []*model.ProductSet) int {
	highest := 0
	for _, p := range products {
		for _, v := range p.Variants {
			m := b.pattern.FindStringSubmatch(v.InventoryItem.SKU)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				// Fora do intervalo de int: novos SKUs podem colidir com este.
				log.Printf("SKU %q ignorado no cálculo do maior número: %v", v.InventoryItem.SKU, err)
				continue
			}
			if n > highest {
				highest = n
			}
		}
	}
	return highest
}

// Backfill numbers every empty or blank SKU after the highest generated one.
// Existing SKUs are never touched. It returns the number of SKUs assigned.
func (b *Backfiller) Backfill(products []*model.ProductSet) int {
	next := b.Highest(products) + 1
	assigned := 0
	for _, p := range products {
		for i := range p.Variants {
			item := &p.Variants[i].InventoryItem
			if strings.TrimSpace(item.SKU) != "" {
				continue
			}
			item.SKU = fmt.Sprintf("%s%d", b.prefix, next)
			next++
			assigned++
		}
	}
	return assigned
}

// Duplicates returns the SKUs used by more than one variant with their counts.
func Duplicates(products []*model.ProductSet) map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		for _, v := range p.Variants {
			if v.InventoryItem.SKU != "" {
				counts[v.InventoryItem.SKU]++
			}
		}
	}
	for s, n := range counts {
		if n < 2 {
			delete(counts, s)
		}
	}
	return counts
}
