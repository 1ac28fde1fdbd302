// Package reddit implements a read-only client for Reddit's public JSON
// search endpoint. It returns normalized results suitable for the
// research scheduler and reports 429 responses as retryable rate-limit
// errors.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/resilience"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "redscout/1.0 (research CLI)"
	defaultTimeout   = 15 * time.Second

	// Reddit throttles unauthenticated JSON clients hard; stay under
	// roughly one request per second regardless of scheduler pacing.
	defaultRate  = rate.Limit(1)
	defaultBurst = 1
)

// Options configures the Reddit client. The zero value is usable.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Limiter    *rate.Limiter
	HTTPClient *http.Client
	// ResultsPerRequest caps the listing size requested per search.
	ResultsPerRequest int
}

// Client searches subreddits via the public /search.json listing API.
type Client struct {
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	http      *http.Client
	limit     int
}

// NewClient creates a Reddit search client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(defaultRate, defaultBurst)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.ResultsPerRequest <= 0 {
		opts.ResultsPerRequest = 25
	}
	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		limiter:   opts.Limiter,
		http:      opts.HTTPClient,
		limit:     opts.ResultsPerRequest,
	}
}

// listing mirrors the subset of Reddit's listing envelope we consume.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// Search queries a single subreddit for posts matching query within the
// given time window. Results that fail validation are dropped with a
// warning rather than failing the whole page. Satisfies
// scheduler.SearchFunc.
func (c *Client) Search(ctx context.Context, source, query string, window model.TimeWindow) ([]model.RawResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "reddit: rate limiter wait")
	}

	u := fmt.Sprintf("%s/r/%s/search.json", c.baseURL, url.PathEscape(source))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "reddit: build request")
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", "new")
	q.Set("t", string(window))
	q.Set("limit", strconv.Itoa(c.limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("reddit: search r/%s", source))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &resilience.RateLimitError{
			Err:        eris.New(fmt.Sprintf("reddit: search r/%s: HTTP 429", source)),
			RetryAfter: retryAfter(resp),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, eris.New(fmt.Sprintf("reddit: search r/%s: HTTP %d", source, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, eris.Wrap(err, "reddit: read response body")
	}

	var page listing
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, eris.Wrap(err, "reddit: decode listing")
	}

	results := make([]model.RawResult, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		r := toResult(child.Data)
		if err := r.Validate(); err != nil {
			zap.L().Warn("reddit: dropping malformed post",
				zap.String("subreddit", source),
				zap.String("post_id", child.Data.ID),
				zap.Error(err),
			)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func toResult(p post) model.RawResult {
	return model.RawResult{
		ID:             p.ID,
		Title:          p.Title,
		BodyText:       p.SelfText,
		AuthorName:     p.Author,
		SourceChannel:  p.Subreddit,
		Score:          p.Score,
		CommentCount:   p.NumComments,
		CreatedAtEpoch: int64(p.CreatedUTC),
		Permalink:      p.Permalink,
	}
}

// retryAfter parses the Retry-After header, if present, as whole seconds.
func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
