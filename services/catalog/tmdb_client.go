package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"wishflix/internal/apperr"
)

const (
	tmdbBaseURL = "https://api.themoviedb.org/3"

	tmdbRetryAttempts = 3
	tmdbRetryDelay    = 300 * time.Millisecond
)

type tmdbClient struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		language:    language,
		baseURL:     tmdbBaseURL,
		httpc:       httpc,
		minInterval: 20 * time.Millisecond, // TMDB has generous rate limits
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *tmdbClient) throttle() {
	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()
}

// doGET fetches a catalog resource and decodes it into v. Transport errors,
// 429 and 5xx responses are retried with exponential backoff; other HTTP
// errors and malformed bodies fail immediately.
func (c *tmdbClient) doGET(ctx context.Context, resource string, params url.Values, v any) error {
	op := "tmdb " + resource

	if !c.isConfigured() {
		return apperr.Networkf(op, "tmdb api key not configured")
	}

	endpoint, err := url.JoinPath(c.baseURL, resource)
	if err != nil {
		return apperr.Network(op, err)
	}

	q := url.Values{}
	for key, vals := range params {
		for _, val := range vals {
			q.Add(key, val)
		}
	}
	q.Set("api_key", c.apiKey)
	if lang := strings.TrimSpace(c.language); lang != "" {
		q.Set("language", lang)
	} else {
		q.Set("language", "en-US")
	}

	return retry.Do(
		func() error {
			c.throttle()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(apperr.Network(op, err))
			}
			req.URL.RawQuery = q.Encode()

			resp, err := c.httpc.Do(req)
			if err != nil {
				return apperr.Network(op, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return apperr.Networkf(op, "request failed: %s", resp.Status)
			}
			if resp.StatusCode >= 400 {
				return retry.Unrecoverable(apperr.Networkf(op, "request failed: %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(apperr.Decode(op, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(tmdbRetryAttempts),
		retry.Delay(tmdbRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// moviePath builds the resource path for a movie-scoped endpoint.
func moviePath(id int64, parts ...string) string {
	p := fmt.Sprintf("movie/%d", id)
	if len(parts) > 0 {
		p += "/" + strings.Join(parts, "/")
	}
	return p
}
