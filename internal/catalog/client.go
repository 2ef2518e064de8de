package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache tags understood by InvalidateTag.
const (
	TagProducts = "products"
)

// ProductTag returns the cache tag for a single product.
func ProductTag(id ID) string {
	return "product:" + string(id)
}

// Source defines the read-only operations the rest of shelf consumes.
// This interface is implemented by *Client and can be used for testing.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id ID) (Product, error)
	InvalidateTag(tag string)
}

// Ensure Client implements Source at compile time.
var _ Source = (*Client)(nil)

// Client talks to the products REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	cache     *cache.Cache
}

const (
	defaultAPIURL    = "https://fakestoreapi.com"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 10 * time.Second
	defaultCacheTTL  = 5 * time.Minute
)

// Option customises a Client.
type Option func(*Client)

// WithCacheTTL sets how long responses are served from cache. A zero or
// negative ttl disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = cache.New(ttl, 2*ttl)
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		cache:     cache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchProducts retrieves the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	const key = "GET /products"
	if cached, ok := c.lookup(key); ok {
		return Clone(cached.([]Product)), nil
	}
	var payload []Product
	if err := c.do(ctx, http.MethodGet, "/products", &payload); err != nil {
		return nil, err
	}
	payload = normalize(payload)
	c.store(key, Clone(payload), TagProducts)
	return payload, nil
}

// FetchProduct retrieves a single product by id.
func (c *Client) FetchProduct(ctx context.Context, id ID) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(string(id)) == "" {
		return Product{}, fmt.Errorf("product id required")
	}
	if id.IsLocal() {
		return Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	key := "GET /products/" + string(id)
	if cached, ok := c.lookup(key); ok {
		return cached.(Product), nil
	}
	var payload *Product
	if err := c.do(ctx, http.MethodGet, "/products/"+string(id), &payload); err != nil {
		return Product{}, err
	}
	// The public API answers unknown ids with 200 and an empty body.
	if payload == nil || payload.ID == "" {
		return Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	c.store(key, *payload, TagProducts, ProductTag(id))
	return *payload, nil
}

// InvalidateTag drops every cached response carrying tag so the next fetch
// goes to the network.
func (c *Client) InvalidateTag(tag string) {
	if c == nil || c.cache == nil {
		return
	}
	for key, item := range c.cache.Items() {
		entry, ok := item.Object.(cacheEntry)
		if !ok {
			continue
		}
		for _, t := range entry.tags {
			if t == tag {
				c.cache.Delete(key)
				break
			}
		}
	}
}

type cacheEntry struct {
	value any
	tags  []string
}

func (c *Client) lookup(key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := raw.(cacheEntry)
	if !ok {
		return nil, false
	}
	return entry.value, true
}

func (c *Client) store(key string, value any, tags ...string) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, cacheEntry{value: value, tags: tags}, cache.DefaultExpiration)
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalize drops entries without an id and any local-namespace ids a
// misbehaving server might send.
func normalize(products []Product) []Product {
	out := products[:0]
	for _, p := range products {
		if p.ID == "" || p.ID.IsLocal() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
