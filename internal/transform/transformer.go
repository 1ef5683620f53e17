package transform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"psmigrate/internal/model"
	"psmigrate/internal/prestashop"
)

// Default option used by Shopify for products without variants.
const (
	DefaultOptionName  = "Title"
	DefaultOptionValue = "Default Title"
)

// Catalog resolves the records a product refers to.
type Catalog interface {
	Combination(ctx context.Context, id int) (prestashop.Combination, error)
	Feature(ctx context.Context, id int) (prestashop.Feature, error)
	FeatureValue(ctx context.Context, id int) (prestashop.FeatureValue, error)
	Option(ctx context.Context, id int) (*prestashop.Option, error)
	OptionValue(ctx context.Context, id int) (prestashop.OptionValue, error)
	Category(ctx context.Context, id int) (prestashop.Category, error)
	Manufacturer(ctx context.Context, id int) (*prestashop.Manufacturer, error)
	Supplier(ctx context.Context, id int) (*prestashop.Supplier, error)
	ProductImages(ctx context.Context, productID int) ([]prestashop.Image, error)
}

type Options struct {
	ShopURL         string
	DefaultVendor   string
	CurrencyCode    string
	SkipProductIDs  map[int]bool
	SkipCategoryIDs map[int]bool
}

// Transformer maps PrestaShop products to Shopify productSet inputs.
type Transformer struct {
	catalog Catalog
	opts    Options

	// SkippedVariants counts combinations dropped for a missing option.
	SkippedVariants int
}

func New(catalog Catalog, opts Options) *Transformer {
	return &Transformer{catalog: catalog, opts: opts}
}

// Transform builds the productSet input for p. It returns nil for skip-listed products.
func (t *Transformer) Transform(ctx context.Context, p prestashop.Product) (*model.ProductSet, error) {
	if t.opts.SkipProductIDs[p.ID] {
		log.Printf("Produto %d ignorado (skip-list)", p.ID)
		return nil, nil
	}

	description, err := CleanHTML(p.Description)
	if err != nil {
		return nil, fmt.Errorf("product %d: description: %w", p.ID, err)
	}

	out := &model.ProductSet{
		Title:           p.Name,
		DescriptionHTML: description,
		Handle:          p.LinkRewrite,
		SEO:             model.SEO{Title: p.MetaTitle, Description: p.MetaDescription},
		Status:          "ACTIVE",
		Vendor:          t.opts.DefaultVendor,
		SourceID:        p.ID,
	}
	if !p.Active {
		out.Status = "DRAFT"
	}

	manufacturer, err := t.catalog.Manufacturer(ctx, p.ManufacturerID)
	if err != nil {
		return nil, fmt.Errorf("product %d: manufacturer %d: %w", p.ID, p.ManufacturerID, err)
	}
	if manufacturer != nil && manufacturer.Name != "" {
		out.Vendor = manufacturer.Name
		out.Brand = &model.Brand{
			Name:   manufacturer.Name,
			Handle: model.BrandHandle{Handle: slug.Make(manufacturer.Name), Type: "brand"},
		}
	}

	if out.Files, err = t.files(ctx, p); err != nil {
		return nil, err
	}
	if out.Metafields, err = t.metafields(ctx, p); err != nil {
		return nil, err
	}
	if out.Variants, out.ProductOptions, err = t.variants(ctx, p); err != nil {
		return nil, err
	}
	if out.Collections, err = t.collections(ctx, p); err != nil {
		return nil, err
	}
	return out, nil
}

// features resolves the feature name and value of every product feature.
func (t *Transformer) features(ctx context.Context, p prestashop.Product) ([]model.RawFeature, error) {
	out := make([]model.RawFeature, 0, len(p.Features))
	for _, pf := range p.Features {
		feature, err := t.catalog.Feature(ctx, pf.FeatureID)
		if err != nil {
			return nil, fmt.Errorf("product %d: feature %d: %w", p.ID, pf.FeatureID, err)
		}
		value, err := t.catalog.FeatureValue(ctx, pf.FeatureValueID)
		if err != nil {
			return nil, fmt.Errorf("product %d: feature value %d: %w", p.ID, pf.FeatureValueID, err)
		}
		out = append(out, model.RawFeature{ID: feature.ID, Name: feature.Name, Value: value.Value})
	}
	return out, nil
}

func (t *Transformer) metafields(ctx context.Context, p prestashop.Product) ([]model.Metafield, error) {
	features, err := t.features(ctx, p)
	if err != nil {
		return nil, err
	}

	fields := make([]model.Metafield, 0, len(features)+6)
	for _, f := range features {
		fields = append(fields, model.Metafield{
			Namespace: model.FeatureNamespace,
			Key:       f.Name,
			Value:     f.Value,
			Type:      model.SingleLineText,
		})
	}

	fields = append(fields, textField("prestashop_product_id", "id", strconv.Itoa(p.ID)))
	if p.Reference != "" {
		fields = append(fields, textField("prestashop_reference", "reference", p.Reference))
	}

	productURL, err := t.productURL(ctx, p)
	if err != nil {
		return nil, err
	}
	fields = append(fields, textField("prestashop_url", "url", productURL))

	supplier, err := t.catalog.Supplier(ctx, p.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("product %d: supplier %d: %w", p.ID, p.SupplierID, err)
	}
	if supplier != nil && supplier.Name != "" {
		fields = append(fields, textField("supplier", "supplier", supplier.Name))
	}

	short, err := CleanHTML(p.ShortDescription)
	if err != nil {
		return nil, fmt.Errorf("product %d: short description: %w", p.ID, err)
	}
	if strings.TrimSpace(short) != "" {
		fields = append(fields, model.Metafield{
			Namespace: "short_description",
			Key:       "description",
			Value:     short,
			Type:      model.MultiLineText,
		})
	}
	if p.NameExtra != "" {
		fields = append(fields, textField("name_extra", "name_extra", p.NameExtra))
	}
	return fields, nil
}

// productURL rebuilds the storefront URL: <shop>/<category>/<id>-<rewrite>[-<ean13>].html
func (t *Transformer) productURL(ctx context.Context, p prestashop.Product) (string, error) {
	var sb strings.Builder
	sb.WriteString(t.opts.ShopURL + "/")
	if p.DefaultCategoryID != 0 {
		cat, err := t.catalog.Category(ctx, p.DefaultCategoryID)
		if err != nil {
			return "", fmt.Errorf("product %d: default category %d: %w", p.ID, p.DefaultCategoryID, err)
		}
		if cat.LinkRewrite != "" {
			sb.WriteString(cat.LinkRewrite + "/")
		}
	}
	sb.WriteString(strconv.Itoa(p.ID) + "-" + p.LinkRewrite)
	if p.EAN13 != "" {
		sb.WriteString("-" + p.EAN13)
	}
	sb.WriteString(".html")
	return sb.String(), nil
}

// files points at the original-size image of every associated image, with its
// legend as alt text.
func (t *Transformer) files(ctx context.Context, p prestashop.Product) ([]model.File, error) {
	if len(p.ImageIDs) == 0 {
		return nil, nil
	}
	images, err := t.catalog.ProductImages(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("product %d: images: %w", p.ID, err)
	}
	legends := make(map[int]string, len(images))
	for _, img := range images {
		legends[img.ID] = img.Legend
	}

	files := make([]model.File, 0, len(p.ImageIDs))
	for _, id := range p.ImageIDs {
		s := strconv.Itoa(id)
		files = append(files, model.File{
			ContentType:    "IMAGE",
			OriginalSource: fmt.Sprintf("%s/img/p/%s/%s.jpg", t.opts.ShopURL, strings.Join(strings.Split(s, ""), "/"), s),
			Alt:            legends[id],
		})
	}
	return files, nil
}

func (t *Transformer) collections(ctx context.Context, p prestashop.Product) ([]model.Collection, error) {
	var out []model.Collection
	for _, id := range p.CategoryIDs {
		if t.opts.SkipCategoryIDs[id] {
			continue
		}
		cat, err := t.catalog.Category(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("product %d: category %d: %w", p.ID, id, err)
		}
		description, err := CleanHTML(cat.Description)
		if err != nil {
			return nil, fmt.Errorf("category %d: description: %w", id, err)
		}
		out = append(out, model.Collection{
			Title:           cat.Name,
			Handle:          cat.LinkRewrite,
			DescriptionHTML: description,
			Metafields: []model.Metafield{
				textField("prestashop_category", "id", strconv.Itoa(cat.ID)),
				textField("prestashop_category", "position", strconv.Itoa(cat.Position)),
			},
		})
	}
	return out, nil
}

// optionSchema collects option names and their distinct values in first-seen order.
type optionSchema struct {
	names  []string
	values map[string][]string
	seen   map[string]map[string]bool
}

func newOptionSchema() *optionSchema {
	return &optionSchema{values: map[string][]string{}, seen: map[string]map[string]bool{}}
}

func (s *optionSchema) add(option, value string) {
	if _, ok := s.seen[option]; !ok {
		s.seen[option] = map[string]bool{}
		s.names = append(s.names, option)
	}
	if s.seen[option][value] {
		return
	}
	s.seen[option][value] = true
	s.values[option] = append(s.values[option], value)
}

func (s *optionSchema) options() []model.ProductOption {
	out := make([]model.ProductOption, 0, len(s.names))
	for _, name := range s.names {
		opt := model.ProductOption{Name: name}
		for _, v := range s.values[name] {
			opt.Values = append(opt.Values, model.OptionValue{Name: v})
		}
		out = append(out, opt)
	}
	return out
}

func (t *Transformer) variants(ctx context.Context, p prestashop.Product) ([]model.Variant, []model.ProductOption, error) {
	if len(p.CombinationIDs) == 0 {
		v := t.variant(p.Reference, p.EAN13, p.Price, p.WholesalePrice)
		v.OptionValues = []model.VariantOptionValue{{Name: DefaultOptionValue, OptionName: DefaultOptionName}}
		options := []model.ProductOption{{Name: DefaultOptionName, Values: []model.OptionValue{{Name: DefaultOptionValue}}}}
		return []model.Variant{v}, options, nil
	}

	schema := newOptionSchema()
	var variants []model.Variant
	for _, id := range p.CombinationIDs {
		comb, err := t.catalog.Combination(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("product %d: combination %d: %w", p.ID, id, err)
		}
		values, ok, err := t.optionValues(ctx, comb)
		if err != nil {
			return nil, nil, fmt.Errorf("product %d: combination %d: %w", p.ID, id, err)
		}
		if !ok {
			log.Printf("Combinação %d do produto %d ignorada: opção inexistente", id, p.ID)
			t.SkippedVariants++
			continue
		}

		cost := comb.WholesalePrice
		if cost == 0 {
			cost = p.WholesalePrice
		}
		v := t.variant(comb.Reference, comb.EAN13, p.Price+comb.Price, cost)
		v.OptionValues = values
		for _, ov := range values {
			schema.add(ov.OptionName, ov.Name)
		}
		variants = append(variants, v)
	}
	return variants, schema.options(), nil
}

// optionValues resolves the option values of a combination. ok is false when one of
// them points at an option that does not exist.
func (t *Transformer) optionValues(ctx context.Context, comb prestashop.Combination) ([]model.VariantOptionValue, bool, error) {
	var out []model.VariantOptionValue
	for _, id := range comb.OptionValueIDs {
		value, err := t.catalog.OptionValue(ctx, id)
		if errors.Is(err, prestashop.ErrNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("option value %d: %w", id, err)
		}
		option, err := t.catalog.Option(ctx, value.OptionID)
		if err != nil {
			return nil, false, fmt.Errorf("option %d: %w", value.OptionID, err)
		}
		if option == nil {
			return nil, false, nil
		}
		out = append(out, model.VariantOptionValue{Name: value.Name, OptionName: option.Name})
	}
	return out, true, nil
}

func (t *Transformer) variant(sku, barcode string, price, cost float64) model.Variant {
	return model.Variant{
		Barcode: barcode,
		InventoryItem: model.InventoryItem{
			Cost:    t.money(cost),
			SKU:     sku,
			Tracked: true,
		},
		// CONTINUE: a variante continua à venda mesmo sem estoque.
		InventoryPolicy: "CONTINUE",
		Price:           t.money(price),
	}
}

func (t *Transformer) money(amount float64) model.Money {
	return model.Money{Amount: strconv.FormatFloat(amount, 'f', 2, 64), CurrencyCode: t.opts.CurrencyCode}
}

func textField(namespace, key, value string) model.Metafield {
	return model.Metafield{Namespace: namespace, Key: key, Value: value, Type: model.SingleLineText}
}
