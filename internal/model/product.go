package model

// Shopify metafield types used by the migration.
const (
	SingleLineText     = "single_line_text_field"
	MultiLineText      = "multi_line_text_field"
	ListSingleLineText = "list.single_line_text_field"
)

// FeatureNamespace holds one metafield per PrestaShop product feature.
const FeatureNamespace = "product_feature"

// RawFeature is a product feature resolved from the source catalog.
type RawFeature struct {
	ID    int
	Name  string
	Value string
}

type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type InventoryItem struct {
	Cost    Money  `json:"cost"`
	SKU     string `json:"sku"`
	Tracked bool   `json:"tracked"`
}

type VariantOptionValue struct {
	Name       string `json:"name"`
	OptionName string `json:"optionName"`
}

type Variant struct {
	Barcode         string               `json:"barcode"`
	InventoryItem   InventoryItem        `json:"inventoryItem"`
	InventoryPolicy string               `json:"inventoryPolicy"`
	Price           Money                `json:"price"`
	OptionValues    []VariantOptionValue `json:"optionValues"`
}

type OptionValue struct {
	Name string `json:"name"`
}

type ProductOption struct {
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

type File struct {
	ContentType    string `json:"contentType"`
	OriginalSource string `json:"originalSource"`
	Alt            string `json:"alt,omitempty"`
}

type Collection struct {
	Title           string      `json:"title"`
	Handle          string      `json:"handle,omitempty"`
	DescriptionHTML string      `json:"descriptionHtml,omitempty"`
	Metafields      []Metafield `json:"metafields,omitempty"`
}

// BrandHandle references the brand metaobject by handle.
type BrandHandle struct {
	Handle string `json:"handle"`
	Type   string `json:"type"`
}

type Brand struct {
	Name   string      `json:"name"`
	Handle BrandHandle `json:"handle"`
}

// ProductSet is the productSet input written for every migrated product.
type ProductSet struct {
	Title           string          `json:"title"`
	DescriptionHTML string          `json:"descriptionHtml"`
	Handle          string          `json:"handle"`
	SEO             SEO             `json:"seo"`
	Status          string          `json:"status"`
	Vendor          string          `json:"vendor"`
	ProductOptions  []ProductOption `json:"productOptions,omitempty"`
	Files           []File          `json:"files,omitempty"`
	Metafields      []Metafield     `json:"metafields"`
	Variants        []Variant       `json:"variants"`
	Collections     []Collection    `json:"collections,omitempty"`
	Brand           *Brand          `json:"brand,omitempty"`

	// SourceID is the PrestaShop product id; it is not part of the payload.
	SourceID int `json:"-"`
}
