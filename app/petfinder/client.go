// Package petfinder is the source fetcher: it exchanges client credentials
// for a bearer token and retrieves single pages of adoptable-dog listings.
package petfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/samshap/dog-digest/app/digest"
	"github.com/samshap/dog-digest/app/metrics"
)

const (
	DefaultBaseURL = "https://api.petfinder.com/v2"

	pageSize       = 100
	requestTimeout = 30 * time.Second
)

// FetchError is a transport or HTTP-level failure (including server-side
// 5xx). The pagination controller absorbs it and keeps partial results.
type FetchError struct {
	URL        string
	StatusCode int // 0 for transport-level failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	ageBrackets string
}

var _ digest.Fetcher = (*Client)(nil)

func NewClient(baseURL, userAgent, ageBrackets string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		baseURL:     baseURL,
		userAgent:   userAgent,
		ageBrackets: ageBrackets,
	}
}

// FetchPage retrieves one page of listings for one search center. The
// upstream is asked for newest-first ordering (sort=recent); the pagination
// controller's early-stop heuristic depends on it. No state is held across
// invocations.
func (c *Client) FetchPage(ctx context.Context, token string, req digest.PageRequest) (*digest.Page, error) {
	endpoint := c.baseURL + "/animals"

	params := url.Values{}
	params.Set("type", "dog")
	params.Set("status", "adoptable")
	params.Set("location", req.Center.ZipCode)
	params.Set("distance", strconv.Itoa(req.Center.DistanceMiles))
	if c.ageBrackets != "" {
		params.Set("age", c.ageBrackets)
	}
	params.Set("sort", "recent")
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(req.Page))

	requestURL := endpoint + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(req.Center.ZipCode).Inc()
		return nil, &FetchError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.FetchErrors.WithLabelValues(req.Center.ZipCode).Inc()
		return nil, &FetchError{URL: requestURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var payload animalsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.FetchErrors.WithLabelValues(req.Center.ZipCode).Inc()
		return nil, &FetchError{URL: requestURL, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	page := &digest.Page{
		Listings:    make([]digest.Listing, 0, len(payload.Animals)),
		CurrentPage: payload.Pagination.CurrentPage,
		TotalPages:  payload.Pagination.TotalPages,
	}
	for _, a := range payload.Animals {
		page.Listings = append(page.Listings, toListing(a))
	}

	metrics.PagesFetched.WithLabelValues(req.Center.ZipCode).Inc()

	return page, nil
}
