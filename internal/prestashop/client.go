package prestashop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"psmigrate/internal/cache"
)

// ErrNotFound is returned when the web service answers 404 for a record.
var ErrNotFound = errors.New("prestashop: not found")

const pageSize = 100

var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// Client reads the PrestaShop web service in JSON output format.
type Client struct {
	BaseURL  string
	Key      string
	Language int
	HTTP     *http.Client
	Cache    cache.Store
	Rand     *rand.Rand
}

func NewClient(baseURL, key string, store cache.Store) *Client {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &Client{
		BaseURL: baseURL,
		Key:     key,
		HTTP:    httpClient,
		Cache:   store,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Get fetches resource[/id] and returns the decoded body.
func (c *Client) Get(ctx context.Context, resource string, id int, params url.Values) (gjson.Result, error) {
	path := resource
	if id > 0 {
		path += "/" + strconv.Itoa(id)
	}
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("output_format", "JSON")
	reqURL := fmt.Sprintf("%s/%s?%s", c.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.SetBasicAuth(c.Key, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return gjson.Result{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("prestashop status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", path)
	}
	return gjson.ParseBytes(body), nil
}

// record fetches one record and unwraps it from its envelope ({"product": {...}}).
// Responses are cached by resource and id.
func (c *Client) record(ctx context.Context, resource, envelope string, id int) (gjson.Result, error) {
	key := resource + "/" + strconv.Itoa(id)
	if raw, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.Printf("Erro ao ler cache %s: %v", key, err)
	} else if ok {
		return gjson.ParseBytes(raw), nil
	}

	body, err := c.Get(ctx, resource, id, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	rec := body.Get(envelope)
	if !rec.IsObject() {
		return gjson.Result{}, fmt.Errorf("%s/%d: expected %q object in response", resource, id, envelope)
	}
	if err := c.Cache.Set(ctx, key, []byte(rec.Raw)); err != nil {
		log.Printf("Erro ao gravar cache %s: %v", key, err)
	}
	return rec, nil
}

// list pages through resource with limit=offset,size until a short page comes back
// or limit records were read (0 reads everything). fn receives each record.
func (c *Client) list(ctx context.Context, resource string, params url.Values, limit int, fn func(gjson.Result)) error {
	fetched := 0
	for offset := 0; ; offset += pageSize {
		size := pageSize
		if limit > 0 && limit-fetched < size {
			size = limit - fetched
		}
		if size <= 0 {
			return nil
		}

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", fmt.Sprintf("%d,%d", offset, size))

		body, err := c.Get(ctx, resource, 0, q)
		if err != nil {
			return err
		}
		// Uma página vazia vem como [] em vez de objeto.
		if body.IsArray() {
			return nil
		}
		items := body.Get(resource)
		if items.Exists() && !items.IsArray() {
			return fmt.Errorf("%s: expected a list, got %s", resource, items.Type)
		}
		page := items.Array()
		for _, item := range page {
			fn(item)
		}
		fetched += len(page)
		if len(page) < size {
			return nil
		}
	}
}
