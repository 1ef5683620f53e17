package prestashop

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// Query selects the products of a run.
type Query struct {
	// ID fetches a single product when non-zero.
	ID int
	// Limit caps the number of products; 0 fetches every active product.
	Limit int
	// Sample picks Limit products at random instead of the first Limit.
	Sample bool
}

func activeFilter() url.Values {
	q := url.Values{}
	q.Set("filter[active]", "[1]")
	return q
}

// Products returns the products selected by q.
func (c *Client) Products(ctx context.Context, q Query) ([]Product, error) {
	if q.ID > 0 {
		p, err := c.Product(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		return []Product{p}, nil
	}
	if q.Sample && q.Limit > 0 {
		return c.sampleProducts(ctx, q.Limit)
	}

	params := activeFilter()
	params.Set("display", "full")
	var products []Product
	err := c.list(ctx, "products", params, q.Limit, func(r gjson.Result) {
		products = append(products, parseProduct(r, c.Language))
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ProductIDs lists the ids of every active product.
func (c *Client) ProductIDs(ctx context.Context) ([]int, error) {
	params := activeFilter()
	params.Set("display", "[id]")
	var ids []int
	err := c.list(ctx, "products", params, 0, func(r gjson.Result) {
		ids = append(ids, int(r.Get("id").Int()))
	})
	return ids, err
}

func (c *Client) sampleProducts(ctx context.Context, n int) ([]Product, error) {
	ids, err := c.ProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	c.Rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if n < len(ids) {
		ids = ids[:n]
	}

	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		p, err := c.Product(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	body, err := c.Get(ctx, "products", id, nil)
	if err != nil {
		return Product{}, err
	}
	rec := body.Get("product")
	if !rec.IsObject() {
		return Product{}, fmt.Errorf("products/%d: expected product object in response", id)
	}
	return parseProduct(rec, c.Language), nil
}

func (c *Client) Combination(ctx context.Context, id int) (Combination, error) {
	rec, err := c.record(ctx, "combinations", "combination", id)
	if err != nil {
		return Combination{}, err
	}
	return parseCombination(rec), nil
}

func (c *Client) Feature(ctx context.Context, id int) (Feature, error) {
	rec, err := c.record(ctx, "product_features", "product_feature", id)
	if err != nil {
		return Feature{}, err
	}
	return Feature{ID: id, Name: langValue(rec.Get("name"), c.Language)}, nil
}

// Features lists every feature definition.
func (c *Client) Features(ctx context.Context) ([]Feature, error) {
	params := url.Values{}
	params.Set("display", "full")
	var features []Feature
	err := c.list(ctx, "product_features", params, 0, func(r gjson.Result) {
		features = append(features, Feature{
			ID:   int(r.Get("id").Int()),
			Name: langValue(r.Get("name"), c.Language),
		})
	})
	return features, err
}

func (c *Client) FeatureValue(ctx context.Context, id int) (FeatureValue, error) {
	rec, err := c.record(ctx, "product_feature_values", "product_feature_value", id)
	if err != nil {
		return FeatureValue{}, err
	}
	return FeatureValue{
		ID:        id,
		FeatureID: int(rec.Get("id_feature").Int()),
		Value:     langValue(rec.Get("value"), c.Language),
	}, nil
}

// Option returns the attribute group, or nil when it does not exist.
func (c *Client) Option(ctx context.Context, id int) (*Option, error) {
	rec, err := c.record(ctx, "product_options", "product_option", id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Option{ID: id, Name: langValue(rec.Get("name"), c.Language)}, nil
}

func (c *Client) OptionValue(ctx context.Context, id int) (OptionValue, error) {
	rec, err := c.record(ctx, "product_option_values", "product_option_value", id)
	if err != nil {
		return OptionValue{}, err
	}
	return OptionValue{
		ID:       id,
		OptionID: int(rec.Get("id_attribute_group").Int()),
		Name:     langValue(rec.Get("name"), c.Language),
	}, nil
}

func (c *Client) Category(ctx context.Context, id int) (Category, error) {
	rec, err := c.record(ctx, "categories", "category", id)
	if err != nil {
		return Category{}, err
	}
	return parseCategory(rec, c.Language), nil
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	params := url.Values{}
	params.Set("display", "full")
	var categories []Category
	err := c.list(ctx, "categories", params, 0, func(r gjson.Result) {
		categories = append(categories, parseCategory(r, c.Language))
	})
	return categories, err
}

// Manufacturer returns nil for id 0 or an unknown manufacturer.
func (c *Client) Manufacturer(ctx context.Context, id int) (*Manufacturer, error) {
	if id == 0 {
		return nil, nil
	}
	rec, err := c.record(ctx, "manufacturers", "manufacturer", id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Manufacturer{ID: id, Name: rec.Get("name").String()}, nil
}

// Supplier returns nil for id 0 or an unknown supplier.
func (c *Client) Supplier(ctx context.Context, id int) (*Supplier, error) {
	if id == 0 {
		return nil, nil
	}
	rec, err := c.record(ctx, "suppliers", "supplier", id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Supplier{ID: id, Name: rec.Get("name").String()}, nil
}

// ProductImages lists the images of a product with their legends. A product
// without images gives nil.
func (c *Client) ProductImages(ctx context.Context, productID int) ([]Image, error) {
	rec, err := c.record(ctx, "images/products", "image", productID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var images []Image
	for _, d := range asList(rec.Get("declination")) {
		id := d.Get("id")
		if !id.Exists() {
			id = d.Get("attrs.id")
		}
		images = append(images, Image{
			ID:     int(id.Int()),
			Legend: langValue(d.Get("legend"), c.Language),
		})
	}
	return images, nil
}
