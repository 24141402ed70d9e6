// Package catalog is the client for the remote storefront API: product and
// category reads, product CRUD for the admin surface, and the login call
// the session manager delegates to.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

// TokenSource supplies the bearer token for authenticated calls. Returning
// false leaves the request anonymous.
type TokenSource func() (string, bool)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.escuelajs.co/api/v1".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// TokenSource, when set, attaches a bearer token to every request.
	TokenSource TokenSource
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	tokenSource TokenSource
	tracer      trace.Tracer
	live        singleflight.Group
}

func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("catalog: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("catalog: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		httpClient:  httpClient,
		logger:      logger,
		tokenSource: config.TokenSource,
		tracer:      otel.Tracer("storefront/catalog"),
	}, nil
}

// Login exchanges credentials for an access token. A 401 maps to
// ErrInvalidCredentials so callers can show the right message.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	var response LoginResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("login: parse response: %w", err)
	}
	if response.AccessToken == "" {
		return "", fmt.Errorf("login: response carried no access token")
	}
	return response.AccessToken, nil
}

// Products returns the full catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("list products: parse response: %w", err)
	}
	return products, nil
}

// Product returns a single product or ErrNotFound.
func (c *Client) Product(ctx context.Context, id int) (domain.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}

	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: parse response: %w", id, err)
	}
	return product, nil
}

// CreateProduct creates a product and returns it with the server-assigned
// identifier and resolved category.
func (c *Client) CreateProduct(ctx context.Context, create CreateProduct) (domain.Product, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/products", create)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: parse response: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update and returns the updated product.
func (c *Client) UpdateProduct(ctx context.Context, id int, update UpdateProduct) (domain.Product, error) {
	body, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), update)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: parse response: %w", id, err)
	}
	return product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// Categories returns all categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("list categories: parse response: %w", err)
	}
	return categories, nil
}

// LiveProductIDs returns the identifiers currently present in the catalog.
// Concurrent callers share one in-flight fetch; the cart validator probes
// on every cart change and must not stampede the API.
func (c *Client) LiveProductIDs(ctx context.Context) (map[int]struct{}, error) {
	v, err, _ := c.live.Do("live-products", func() (any, error) {
		products, err := c.Products(ctx)
		if err != nil {
			return nil, err
		}
		ids := make(map[int]struct{}, len(products))
		for _, p := range products {
			ids[p.ID] = struct{}{}
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]struct{}), nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenSource != nil {
		if token, ok := c.tokenSource(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		span.SetStatus(codes.Error, "non-2xx response")
		c.logger.Debug("catalog request failed",
			"method", method, "path", path, "status", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
