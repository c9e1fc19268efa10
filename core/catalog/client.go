package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// errRateLimited marks an attempt consumed by a 429 response, so a request
// that exhausts its retries on rate limiting still reports a cause.
var errRateLimited = errors.New("rate limited by catalog API")

// Client defines the interface for catalog operations.
type Client interface {
	// Ping verifies connectivity and credentials.
	Ping(ctx context.Context) error
	// ListItems fetches every catalog item, following pagination.
	ListItems(ctx context.Context) ([]Item, error)
	// UpdateQuantity sets the inventory quantity for one item at one location.
	UpdateQuantity(ctx context.Context, locationID, itemID string, quantity int) error
}

// restClient talks to the catalog Admin REST API. It throttles its own
// request rate and retries transient failures with exponential backoff, so
// callers can treat every operation as a plain blocking call.
type restClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger

	minInterval time.Duration
	maxRetries  int
	lastRequest time.Time
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg Config, logger *zap.Logger) Client {
	// Normalize shop URL: drop scheme and trailing slashes
	shopURL := strings.TrimPrefix(cfg.ShopURL, "https://")
	shopURL = strings.TrimPrefix(shopURL, "http://")
	shopURL = strings.TrimSuffix(shopURL, "/")

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &restClient{
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopURL, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger:      logger,
		minInterval: time.Second / time.Duration(rps),
		maxRetries:  retries,
	}
}

func (c *restClient) Ping(ctx context.Context) error {
	_, _, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/shop.json", nil)
	return err
}

// listItemsPage mirrors the items endpoint payload.
type listItemsPage struct {
	Items []Item `json:"items"`
}

func (c *restClient) ListItems(ctx context.Context) ([]Item, error) {
	var all []Item

	url := c.baseURL + "/items.json?limit=250"
	for url != "" {
		body, header, err := c.doRequest(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog items: %w", err)
		}

		var page listItemsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode catalog items: %w", err)
		}
		if len(page.Items) == 0 {
			break
		}
		all = append(all, page.Items...)

		url = nextPageURL(header.Get("Link"))
	}

	c.logger.Debug("Catalog snapshot fetched", zap.Int("items", len(all)))
	return all, nil
}

type updateQuantityRequest struct {
	LocationID string `json:"location_id"`
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

func (c *restClient) UpdateQuantity(ctx context.Context, locationID, itemID string, quantity int) error {
	payload, err := json.Marshal(updateQuantityRequest{
		LocationID: locationID,
		ItemID:     itemID,
		Quantity:   quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal quantity update: %w", err)
	}

	if _, _, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/inventory_levels/set.json", payload); err != nil {
		return fmt.Errorf("failed to update quantity for item %s: %w", itemID, err)
	}
	return nil
}

// doRequest performs one API call with rate limiting and retry.
// 429 responses honor the Retry-After header; transport errors back off
// exponentially up to maxRetries attempts.
func (c *restClient) doRequest(ctx context.Context, method, url string, body []byte) ([]byte, http.Header, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.waitForRateLimit(ctx); err != nil {
			return nil, nil, err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Catalog-Access-Token", c.accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			wait := time.Duration(1<<attempt) * 2 * time.Second
			c.logger.Warn("Catalog request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, nil, err
			}
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, nil, fmt.Errorf("failed to read response: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = errRateLimited
			retryAfter := 2 * time.Second
			if s := resp.Header.Get("Retry-After"); s != "" {
				if secs, err := strconv.Atoi(s); err == nil {
					retryAfter = time.Duration(secs) * time.Second
				}
			}
			c.logger.Warn("Catalog rate limit hit", zap.Duration("retry_after", retryAfter))
			if err := sleepCtx(ctx, retryAfter); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, nil, fmt.Errorf("catalog API error: status %d, body: %s", resp.StatusCode, string(respBody))
		}

		return respBody, resp.Header, nil
	}

	return nil, nil, fmt.Errorf("catalog request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *restClient) waitForRateLimit(ctx context.Context) error {
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		if err := sleepCtx(ctx, c.minInterval-since); err != nil {
			return err
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextPageURL extracts the rel="next" target from a Link header.
// Format: <https://...>; rel="next", <https://...>; rel="previous"
func nextPageURL(linkHeader string) string {
	for _, link := range strings.Split(linkHeader, ",") {
		if !strings.Contains(link, `rel="next"`) {
			continue
		}
		parts := strings.SplitN(link, ";", 2)
		return strings.Trim(strings.TrimSpace(parts[0]), "<>")
	}
	return ""
}
