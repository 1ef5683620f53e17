package prestashop

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type Product struct {
	ID                int
	ManufacturerID    int
	SupplierID        int
	DefaultCategoryID int
	Reference         string
	EAN13             string
	Price             float64
	WholesalePrice    float64
	Active            bool
	Name              string
	NameExtra         string
	Description       string
	ShortDescription  string
	LinkRewrite       string
	MetaTitle         string
	MetaDescription   string
	CategoryIDs       []int
	CombinationIDs    []int
	ImageIDs          []int
	Features          []ProductFeature

	// Raw is the record as returned by the web service.
	Raw []byte
}

// ProductFeature links a product to a feature and one of its values.
type ProductFeature struct {
	FeatureID      int
	FeatureValueID int
}

type Combination struct {
	ID             int
	ProductID      int
	Reference      string
	EAN13          string
	Price          float64
	WholesalePrice float64
	OptionValueIDs []int
}

type Feature struct {
	ID   int
	Name string
}

type FeatureValue struct {
	ID        int
	FeatureID int
	Value     string
}

type Option struct {
	ID   int
	Name string
}

type OptionValue struct {
	ID       int
	OptionID int
	Name     string
}

// Image is one picture of a product with its alt text.
type Image struct {
	ID     int
	Legend string
}

type Category struct {
	ID          int
	ParentID    int
	Name        string
	LinkRewrite string
	Description string
	Position    int
	Active      bool
}

type Manufacturer struct {
	ID   int
	Name string
}

type Supplier struct {
	ID   int
	Name string
}

// langValue reads a multi-language field. The web service returns either a plain
// string, a list of {id, value} per language or, in XML-converted payloads,
// {"language": {"value": ...}}. lang selects the language id; 0 takes the first.
func langValue(r gjson.Result, lang int) string {
	switch {
	case r.IsArray():
		items := r.Array()
		if len(items) == 0 {
			return ""
		}
		for _, item := range items {
			if lang != 0 && int(item.Get("id").Int()) == lang {
				return item.Get("value").String()
			}
		}
		return items[0].Get("value").String()
	case r.IsObject():
		if l := r.Get("language"); l.Exists() {
			return langValue(l, lang)
		}
		return r.Get("value").String()
	default:
		return r.String()
	}
}

// asList treats a single association object as a one element list.
func asList(r gjson.Result) []gjson.Result {
	switch {
	case r.IsArray():
		return r.Array()
	case r.IsObject():
		return []gjson.Result{r}
	default:
		return nil
	}
}

func associationIDs(r gjson.Result) []int {
	var ids []int
	for _, item := range asList(r) {
		ids = append(ids, int(item.Get("id").Int()))
	}
	return ids
}

func parseProduct(r gjson.Result, lang int) Product {
	p := Product{
		ID:                int(r.Get("id").Int()),
		ManufacturerID:    int(r.Get("id_manufacturer").Int()),
		SupplierID:        int(r.Get("id_supplier").Int()),
		DefaultCategoryID: int(r.Get("id_category_default").Int()),
		Reference:         r.Get("reference").String(),
		EAN13:             r.Get("ean13").String(),
		Price:             r.Get("price").Float(),
		WholesalePrice:    r.Get("wholesale_price").Float(),
		Active:            r.Get("active").Int() == 1,
		Name:              langValue(r.Get("name"), lang),
		NameExtra:         langValue(r.Get("name_extra"), lang),
		Description:       langValue(r.Get("description"), lang),
		ShortDescription:  langValue(r.Get("description_short"), lang),
		LinkRewrite:       langValue(r.Get("link_rewrite"), lang),
		MetaTitle:         langValue(r.Get("meta_title"), lang),
		MetaDescription:   langValue(r.Get("meta_description"), lang),
		Raw:               []byte(r.Raw),
	}

	assoc := r.Get("associations")
	p.CategoryIDs = associationIDs(assoc.Get("categories"))
	p.CombinationIDs = associationIDs(assoc.Get("combinations"))
	p.ImageIDs = associationIDs(assoc.Get("images"))
	for _, f := range asList(assoc.Get("product_features")) {
		p.Features = append(p.Features, ProductFeature{
			FeatureID:      int(f.Get("id").Int()),
			FeatureValueID: int(f.Get("id_feature_value").Int()),
		})
	}
	return p
}

func parseCombination(r gjson.Result) Combination {
	return Combination{
		ID:             int(r.Get("id").Int()),
		ProductID:      int(r.Get("id_product").Int()),
		Reference:      r.Get("reference").String(),
		EAN13:          r.Get("ean13").String(),
		Price:          r.Get("price").Float(),
		WholesalePrice: r.Get("wholesale_price").Float(),
		OptionValueIDs: associationIDs(r.Get("associations.product_option_values")),
	}
}

func parseCategory(r gjson.Result, lang int) Category {
	return Category{
		ID:          int(r.Get("id").Int()),
		ParentID:    int(r.Get("id_parent").Int()),
		Name:        langValue(r.Get("name"), lang),
		LinkRewrite: langValue(r.Get("link_rewrite"), lang),
		Description: langValue(r.Get("description"), lang),
		Position:    int(r.Get("position").Int()),
		Active:      r.Get("active").Int() == 1,
	}
}

// ParseProduct decodes a product record kept from an earlier read (Product.Raw).
func ParseProduct(raw []byte, lang int) (Product, error) {
	if !gjson.ValidBytes(raw) {
		return Product{}, fmt.Errorf("invalid product JSON")
	}
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return Product{}, fmt.Errorf("expected product object, got %s", r.Type)
	}
	return parseProduct(r, lang), nil
}
