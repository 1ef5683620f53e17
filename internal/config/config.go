package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL        string
	APIKey        string
	ShopURL       string
	DatabaseURL   string
	RedisURL      string
	MetricsPort   string
	RulesPath     string
	OutputPath    string
	DefaultVendor string
	CurrencyCode  string
	SKUPrefix     string

	SkipProductIDs  map[int]bool
	SkipCategoryIDs map[int]bool
}

func Load() *Config {
	// .env da raiz do projeto quando executado de cmd/<tool>
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		APIURL:          strings.TrimRight(os.Getenv("PS_API_URL"), "/"),
		APIKey:          os.Getenv("PS_API_KEY"),
		ShopURL:         strings.TrimRight(getEnv("PS_SHOP_URL", "https://induclean.dk"), "/"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		MetricsPort:     os.Getenv("METRICS_PORT"),
		RulesPath:       os.Getenv("RULES_PATH"),
		OutputPath:      getEnv("OUTPUT_PATH", "dump/shopify_products.jsonl"),
		DefaultVendor:   getEnv("DEFAULT_VENDOR", "Induclean"),
		CurrencyCode:    getEnv("CURRENCY_CODE", "DKK"),
		SKUPrefix:       getEnv("SKU_PREFIX", "IC"),
		SkipProductIDs:  parseIDs(os.Getenv("SKIP_PRODUCT_IDS")),
		SkipCategoryIDs: parseIDs(getEnv("SKIP_CATEGORY_IDS", "1,2")),
	}
}

// Validate checks the settings every tool talking to the web service needs.
func (c *Config) Validate() error {
	var missing []string
	if c.APIURL == "" {
		missing = append(missing, "PS_API_URL")
	}
	if c.APIKey == "" {
		missing = append(missing, "PS_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// parseIDs reads a comma separated id list. Entries that are not integers are ignored.
func parseIDs(s string) map[int]bool {
	ids := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids
}
