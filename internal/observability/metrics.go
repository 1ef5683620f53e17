package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProductsTransformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_products_transformed_total",
			Help: "Produtos convertidos para productSet",
		},
	)
	ProductsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_products_skipped_total",
			Help: "Produtos ignorados pela skip-list",
		},
	)
	VariantsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_variants_skipped_total",
			Help: "Combinações ignoradas por opção inexistente",
		},
	)
	MetafieldsSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_metafields_suppressed_total",
			Help: "Metafields scalar-only descartados por ter mais de um valor",
		},
	)
	HandlesRenamed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_handles_renamed_total",
			Help: "Handles alterados para evitar colisão",
		},
	)
	SKUsAssigned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "psmigrate_skus_assigned_total",
			Help: "SKUs gerados para variantes sem referência",
		},
	)
)

// Collectors lists every counter of the migration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ProductsTransformed,
		ProductsSkipped,
		VariantsSkipped,
		MetafieldsSuppressed,
		HandlesRenamed,
		SKUsAssigned,
	}
}

// Start exposes /metrics on port. An empty port disables the endpoint.
func Start(port string) {
	if port == "" {
		return
	}
	prometheus.MustRegister(Collectors()...)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("Erro no servidor de métricas: %v", err)
		}
	}()
}
