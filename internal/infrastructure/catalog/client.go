package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/skinfridge/fridge/internal/domain"
)

const (
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 10
	defaultBurst             = 10
	defaultUserAgent         = "SkinFridge/1.0"

	// maxErrorBodyBytes caps how much of an error response is read
	maxErrorBodyBytes = 1 << 10
)

// DuplicateProductMessage is the message the backend answers with when a
// product is already in the requested day
const DuplicateProductMessage = "Product already exists"

// Config holds catalog client configuration
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
	// SessionCookieName and SessionCookie seed the cookie jar with an existing session
	SessionCookieName string
	SessionCookie     string
}

// Client handles communication with the backend catalog API. Session
// credentials travel in the cookie jar; the client never reads them.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	userAgent   string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new catalog API client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid catalog base url %q", domain.ErrInvalidRequest, cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if cfg.SessionCookieName != "" && cfg.SessionCookie != "" {
		jar.SetCookies(base, []*http.Cookie{{
			Name:  cfg.SessionCookieName,
			Value: cfg.SessionCookie,
			Path:  "/",
		}})
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL:     base,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:      logger.Named("catalog"),
	}, nil
}

// SetDebug enables logging of every request and response status
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// ListProducts returns the products stored for a day
func (c *Client) ListProducts(ctx context.Context, day domain.Day) ([]domain.Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/"+string(day)+"/products/", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp)
	}

	var products []productDTO
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: failed to decode products: %v", domain.ErrNetwork, err)
	}

	return MapProducts(products), nil
}

// ListRules returns the raw compatibility rules for a day
func (c *Client) ListRules(ctx context.Context, day domain.Day) (*domain.RuleSet, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/"+string(day)+"/rules/", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp)
	}

	var rules domain.RuleSet
	if err := json.NewDecoder(resp.Body).Decode(&rules); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rules: %v", domain.ErrNetwork, err)
	}

	return &rules, nil
}

// SearchCatalog searches the product catalog. No match yields an empty slice.
func (c *Client) SearchCatalog(ctx context.Context, query string) ([]domain.SearchResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/search/", searchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search results: %v", domain.ErrNetwork, err)
	}

	results := MapSearchResults(body.Results)
	c.logger.Debug("catalog search", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// AddProduct stores the product found at productURL in a day
func (c *Client) AddProduct(ctx context.Context, day domain.Day, productURL string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/"+string(day)+"/products", addProductRequest{ProductURL: productURL})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var msg messageResponse
	_ = json.Unmarshal(body, &msg)

	if resp.StatusCode == http.StatusConflict || isDuplicateMessage(msg.Message) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateProduct, productURL)
	}
	return fmt.Errorf("%w: status %d, body: %s", domain.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
}

// DeleteProduct removes a product from a day
func (c *Client) DeleteProduct(ctx context.Context, day domain.Day, productID string) error {
	path := "/" + string(day) + "/products/" + url.PathEscape(productID) + "/"
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// SubmitSkinType records the user's skin type during onboarding
func (c *Client) SubmitSkinType(ctx context.Context, skinType string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/"+url.PathEscape(skinType)+"/", skinTypeRequest{SkinType: skinType})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// doRequest waits for the rate limiter and executes a request with a JSON body
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.baseURL.JoinPath(path)
	// JoinPath drops a trailing slash the backend routes depend on
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(reqURL.Path, "/") {
		reqURL.Path += "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if c.debug {
		c.logger.Debug("catalog request",
			zap.String("method", method),
			zap.String("url", reqURL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
	}

	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// statusError builds an ErrNetwork for a non-2xx response
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return fmt.Errorf("%w: status %d, body: %s", domain.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
}

func isDuplicateMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "already exists")
}
