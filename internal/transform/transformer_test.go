package transform

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psmigrate/internal/model"
	"psmigrate/internal/prestashop"
)

type fakeCatalog struct {
	combinations  map[int]prestashop.Combination
	features      map[int]prestashop.Feature
	featureValues map[int]prestashop.FeatureValue
	options       map[int]prestashop.Option
	optionValues  map[int]prestashop.OptionValue
	categories    map[int]prestashop.Category
	manufacturers map[int]prestashop.Manufacturer
	suppliers     map[int]prestashop.Supplier
	images        map[int][]prestashop.Image
}

func lookup[T any](m map[int]T, kind string, id int) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", kind, id, prestashop.ErrNotFound)
	}
	return v, nil
}

func (f *fakeCatalog) Combination(_ context.Context, id int) (prestashop.Combination, error) {
	return lookup(f.combinations, "combination", id)
}

func (f *fakeCatalog) Feature(_ context.Context, id int) (prestashop.Feature, error) {
	return lookup(f.features, "feature", id)
}

func (f *fakeCatalog) FeatureValue(_ context.Context, id int) (prestashop.FeatureValue, error) {
	return lookup(f.featureValues, "feature value", id)
}

func (f *fakeCatalog) Option(_ context.Context, id int) (*prestashop.Option, error) {
	o, ok := f.options[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeCatalog) OptionValue(_ context.Context, id int) (prestashop.OptionValue, error) {
	return lookup(f.optionValues, "option value", id)
}

func (f *fakeCatalog) Category(_ context.Context, id int) (prestashop.Category, error) {
	return lookup(f.categories, "category", id)
}

func (f *fakeCatalog) Manufacturer(_ context.Context, id int) (*prestashop.Manufacturer, error) {
	m, ok := f.manufacturers[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeCatalog) Supplier(_ context.Context, id int) (*prestashop.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeCatalog) ProductImages(_ context.Context, productID int) ([]prestashop.Image, error) {
	return f.images[productID], nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		combinations: map[int]prestashop.Combination{
			77: {ID: 77, ProductID: 2126, Reference: "SL-20-10", Price: 150, WholesalePrice: 0, OptionValueIDs: []int{5}},
			78: {ID: 78, ProductID: 2126, Reference: "SL-20-15", Price: 250, WholesalePrice: 700, OptionValueIDs: []int{6}},
			79: {ID: 79, ProductID: 2126, Reference: "SL-20-X", OptionValueIDs: []int{7}},
		},
		features: map[int]prestashop.Feature{
			3: {ID: 3, Name: "Luft"},
			4: {ID: 4, Name: "Slangelængde"},
		},
		featureValues: map[int]prestashop.FeatureValue{
			31: {ID: 31, FeatureID: 3, Value: "Ja"},
			41: {ID: 41, FeatureID: 4, Value: "10 m"},
		},
		options: map[int]prestashop.Option{
			1: {ID: 1, Name: "Længde"},
		},
		optionValues: map[int]prestashop.OptionValue{
			5: {ID: 5, OptionID: 1, Name: "10 m"},
			6: {ID: 6, OptionID: 1, Name: "15 m"},
			7: {ID: 7, OptionID: 2, Name: "Rød"},
		},
		categories: map[int]prestashop.Category{
			2:  {ID: 2, Name: "Forside", LinkRewrite: "forside", Position: 0},
			12: {ID: 12, Name: "Slangeoprullere", LinkRewrite: "slangeoprullere", Description: `<p style="color:red">Alle</p>`, Position: 3},
		},
		manufacturers: map[int]prestashop.Manufacturer{
			4: {ID: 4, Name: "Kärcher Pro"},
		},
		suppliers: map[int]prestashop.Supplier{
			8: {ID: 8, Name: "Nordic Supply"},
		},
		images: map[int][]prestashop.Image{
			2126: {{ID: 851, Legend: "Slangeopruller front"}},
		},
	}
}

func testProduct() prestashop.Product {
	return prestashop.Product{
		ID:                2126,
		ManufacturerID:    4,
		SupplierID:        8,
		DefaultCategoryID: 12,
		Reference:         "SL-20",
		EAN13:             "5706224097264",
		Price:             1000,
		WholesalePrice:    600,
		Active:            true,
		Name:              "Aut. slangeopruller",
		Description:       `<div class="rte"><p style="margin:0">Robust</p></div>`,
		ShortDescription:  `<p class="lead">Kort</p>`,
		LinkRewrite:       "aut-slangeopruller",
		MetaTitle:         "Slangeopruller",
		CategoryIDs:       []int{2, 12},
		CombinationIDs:    []int{77, 78, 79},
		ImageIDs:          []int{851},
		Features: []prestashop.ProductFeature{
			{FeatureID: 3, FeatureValueID: 31},
			{FeatureID: 4, FeatureValueID: 41},
		},
	}
}

func testOptions() Options {
	return Options{
		ShopURL:         "https://induclean.dk",
		DefaultVendor:   "Induclean",
		CurrencyCode:    "DKK",
		SkipCategoryIDs: map[int]bool{2: true},
	}
}

func TestTransformProduct(t *testing.T) {
	tr := New(newCatalog(), testOptions())

	out, err := tr.Transform(context.Background(), testProduct())
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "Aut. slangeopruller", out.Title)
	assert.Equal(t, "aut-slangeopruller", out.Handle)
	assert.Equal(t, "<div><p>Robust</p></div>", out.DescriptionHTML)
	assert.Equal(t, "ACTIVE", out.Status)
	assert.Equal(t, "Kärcher Pro", out.Vendor)
	assert.Equal(t, &model.Brand{Name: "Kärcher Pro", Handle: model.BrandHandle{Handle: "karcher-pro", Type: "brand"}}, out.Brand)
	assert.Equal(t, 2126, out.SourceID)
	assert.Equal(t, []model.File{{
		ContentType:    "IMAGE",
		OriginalSource: "https://induclean.dk/img/p/8/5/1/851.jpg",
		Alt:            "Slangeopruller front",
	}}, out.Files)
}

func TestTransformImageWithoutLegend(t *testing.T) {
	tr := New(newCatalog(), testOptions())
	p := testProduct()
	p.ImageIDs = []int{851, 1203}

	out, err := tr.Transform(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, out.Files, 2)
	assert.Equal(t, "https://induclean.dk/img/p/1/2/0/3/1203.jpg", out.Files[1].OriginalSource)
	assert.Empty(t, out.Files[1].Alt)
}

func TestTransformMetafields(t *testing.T) {
	tr := New(newCatalog(), testOptions())

	out, err := tr.Transform(context.Background(), testProduct())
	require.NoError(t, err)

	assert.Equal(t, []model.Metafield{
		{Namespace: "product_feature", Key: "Luft", Value: "Ja", Type: model.SingleLineText},
		{Namespace: "product_feature", Key: "Slangelængde", Value: "10 m", Type: model.SingleLineText},
		{Namespace: "prestashop_product_id", Key: "id", Value: "2126", Type: model.SingleLineText},
		{Namespace: "prestashop_reference", Key: "reference", Value: "SL-20", Type: model.SingleLineText},
		{Namespace: "prestashop_url", Key: "url", Value: "https://induclean.dk/slangeoprullere/2126-aut-slangeopruller-5706224097264.html", Type: model.SingleLineText},
		{Namespace: "supplier", Key: "supplier", Value: "Nordic Supply", Type: model.SingleLineText},
		{Namespace: "short_description", Key: "description", Value: "<p>Kort</p>", Type: model.MultiLineText},
	}, out.Metafields)
}

func TestTransformVariants(t *testing.T) {
	tr := New(newCatalog(), testOptions())

	out, err := tr.Transform(context.Background(), testProduct())
	require.NoError(t, err)

	require.Len(t, out.Variants, 2)
	assert.Equal(t, 1, tr.SkippedVariants)

	first := out.Variants[0]
	assert.Equal(t, "SL-20-10", first.InventoryItem.SKU)
	assert.Equal(t, model.Money{Amount: "1150.00", CurrencyCode: "DKK"}, first.Price)
	assert.Equal(t, "600.00", first.InventoryItem.Cost.Amount)
	assert.Equal(t, "CONTINUE", first.InventoryPolicy)
	assert.True(t, first.InventoryItem.Tracked)
	assert.Equal(t, []model.VariantOptionValue{{Name: "10 m", OptionName: "Længde"}}, first.OptionValues)

	second := out.Variants[1]
	assert.Equal(t, "1250.00", second.Price.Amount)
	assert.Equal(t, "700.00", second.InventoryItem.Cost.Amount)

	assert.Equal(t, []model.ProductOption{{
		Name:   "Længde",
		Values: []model.OptionValue{{Name: "10 m"}, {Name: "15 m"}},
	}}, out.ProductOptions)
}

func TestTransformDefaultVariant(t *testing.T) {
	tr := New(newCatalog(), testOptions())
	p := testProduct()
	p.CombinationIDs = nil

	out, err := tr.Transform(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, out.Variants, 1)
	v := out.Variants[0]
	assert.Equal(t, "SL-20", v.InventoryItem.SKU)
	assert.Equal(t, "5706224097264", v.Barcode)
	assert.Equal(t, "1000.00", v.Price.Amount)
	assert.Equal(t, []model.VariantOptionValue{{Name: DefaultOptionValue, OptionName: DefaultOptionName}}, v.OptionValues)
	assert.Equal(t, DefaultOptionName, out.ProductOptions[0].Name)
}

func TestTransformBlankSKUIsLeftBlank(t *testing.T) {
	tr := New(newCatalog(), testOptions())
	p := testProduct()
	p.Reference = ""
	p.CombinationIDs = nil

	out, err := tr.Transform(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, out.Variants[0].InventoryItem.SKU)
}

func TestTransformCollections(t *testing.T) {
	tr := New(newCatalog(), testOptions())

	out, err := tr.Transform(context.Background(), testProduct())
	require.NoError(t, err)

	assert.Equal(t, []model.Collection{{
		Title:           "Slangeoprullere",
		Handle:          "slangeoprullere",
		DescriptionHTML: "<p>Alle</p>",
		Metafields: []model.Metafield{
			{Namespace: "prestashop_category", Key: "id", Value: "12", Type: model.SingleLineText},
			{Namespace: "prestashop_category", Key: "position", Value: "3", Type: model.SingleLineText},
		},
	}}, out.Collections)
}

func TestTransformUnknownCategoryFails(t *testing.T) {
	tr := New(newCatalog(), testOptions())
	p := testProduct()
	p.CategoryIDs = []int{12, 404}

	_, err := tr.Transform(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, prestashop.ErrNotFound))
	assert.Contains(t, err.Error(), "category 404")
}

func TestTransformSkipList(t *testing.T) {
	opts := testOptions()
	opts.SkipProductIDs = map[int]bool{2126: true}
	tr := New(newCatalog(), opts)

	out, err := tr.Transform(context.Background(), testProduct())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestTransformWithoutManufacturer(t *testing.T) {
	tr := New(newCatalog(), testOptions())
	p := testProduct()
	p.ManufacturerID = 0
	p.Active = false

	out, err := tr.Transform(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Induclean", out.Vendor)
	assert.Nil(t, out.Brand)
	assert.Equal(t, "DRAFT", out.Status)
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"attributes", `<p class="a" style="b">x</p>`, "<p>x</p>"},
		{"style block", `<p>x</p><style>.a{}</style>`, "<p>x</p>"},
		{"other tags keep attributes", `<a href="/y" class="btn">y</a>`, `<a href="/y" class="btn">y</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanHTML(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
