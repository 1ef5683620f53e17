package sku

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"psmigrate/internal/model"
)

func variants(skus ...string) []model.Variant {
	out := make([]model.Variant, len(skus))
	for i, s := range skus {
		out[i].InventoryItem.SKU = s
	}
	return out
}

func skusOf(products []*model.ProductSet) []string {
	var out []string
	for _, p := range products {
		for _, v := range p.Variants {
			out = append(out, v.InventoryItem.SKU)
		}
	}
	return out
}

func TestBackfillContinuesAfterHighest(t *testing.T) {
	products := []*model.ProductSet{{Variants: variants("IC5", "", "IC9", "")}}

	assigned := NewBackfiller("IC").Backfill(products)

	assert.Equal(t, []string{"IC5", "IC10", "IC9", "IC11"}, skusOf(products))
	assert.Equal(t, 2, assigned)
}

func TestBackfillAcrossProductsAndBlankSKUs(t *testing.T) {
	products := []*model.ProductSet{
		{Variants: variants("  ", "ic12")},
		{Variants: variants("HOSE-1", "")},
	}

	NewBackfiller("IC").Backfill(products)

	assert.Equal(t, []string{"IC13", "ic12", "HOSE-1", "IC14"}, skusOf(products))
}

func TestBackfillWithoutGeneratedSKUsStartsAtOne(t *testing.T) {
	products := []*model.ProductSet{{Variants: variants("", "IC", "ICX7", "")}}

	b := NewBackfiller("IC")

	assert.Equal(t, 0, b.Highest(products))
	b.Backfill(products)
	assert.Equal(t, []string{"IC1", "IC", "ICX7", "IC2"}, skusOf(products))
}

func TestDuplicates(t *testing.T) {
	products := []*model.ProductSet{
		{Variants: variants("IC1", "IC2", "")},
		{Variants: variants("IC2", "", "IC3")},
	}

	assert.Equal(t, map[string]int{"IC2": 2}, Duplicates(products))
}

func TestHighestLogsOverflowingSKU(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	products := []*model.ProductSet{{Variants: variants("IC99999999999999999999", "IC4", "")}}
	b := NewBackfiller("IC")

	assert.Equal(t, 4, b.Highest(products))
	assert.Contains(t, buf.String(), `"IC99999999999999999999"`)

	b.Backfill(products)
	assert.Equal(t, "IC5", products[0].Variants[2].InventoryItem.SKU)
}
