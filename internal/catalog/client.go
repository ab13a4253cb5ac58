package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// maxResponseBytes caps how much of an upstream response body is read.
const maxResponseBytes = 8 << 20

// Client is the typed HTTP consumer of the catalog API. It issues plain GET
// requests with no retries and no timeout beyond the transport's own; the
// Service layer above decides how failures surface to pages.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the catalog API at baseURL. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListProducts fetches the full product collection, size-capped when limit > 0.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	path := "/products"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

// GetProduct fetches a single product. Unknown IDs yield ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	// The upstream API responds 200 with an empty body for unknown IDs
	// instead of a 404, so an undecodable or empty payload means not found.
	p, err := decodeProduct(jx.DecodeBytes(body))
	if err != nil || p.ID == 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

// ListCategories fetches the distinct category names known to the catalog.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var out []string
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return out, nil
}

// ListProductsByCategory fetches products whose category matches exactly,
// using the catalog's own spelling.
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	body, err := c.get(ctx, "/products/category/"+url.PathEscape(category))
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", path)
	}
	return body, nil
}

func decodeProducts(data []byte) ([]Product, error) {
	var out []Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "price":
			v, err := d.Float64()
			p.Price = decimal.NewFromFloat(v)
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "image":
			v, err := d.Str()
			p.Image = v
			return err
		case "rating":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "rate":
					v, err := d.Float64()
					p.Rating.Rate = v
					return err
				case "count":
					v, err := d.Int()
					p.Rating.Count = v
					return err
				default:
					return d.Skip()
				}
			})
		default:
			return d.Skip()
		}
	})
	return p, err
}
