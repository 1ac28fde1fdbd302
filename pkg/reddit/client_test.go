package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/resilience"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		UserAgent: "redscout-test/0.0",
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	})
}

const sampleListing = `{
  "kind": "Listing",
  "data": {
    "children": [
      {
        "kind": "t3",
        "data": {
          "id": "abc123",
          "title": "Stripe keeps declining legitimate cards",
          "selftext": "Three customers this week alone had valid cards rejected at checkout.",
          "author": "storekeeper",
          "subreddit": "shopify",
          "score": 47,
          "num_comments": 12,
          "created_utc": 1756600000.0,
          "permalink": "/r/shopify/comments/abc123/stripe_keeps_declining/"
        }
      },
      {
        "kind": "t3",
        "data": {
          "id": "",
          "title": "post with no id gets dropped",
          "selftext": "body text that is long enough to otherwise pass",
          "author": "ghost",
          "subreddit": "shopify",
          "score": 3,
          "num_comments": 0,
          "created_utc": 1756600001.0,
          "permalink": "/r/shopify/comments/missing/"
        }
      }
    ]
  }
}`

func TestSearch_MapsListingToResults(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		assert.Equal(t, "redscout-test/0.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleListing))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	results, err := c.Search(context.Background(), "shopify", "payment declined", model.WindowWeek)
	require.NoError(t, err)

	assert.Equal(t, "/r/shopify/search.json", gotPath)
	assert.Equal(t, "payment declined", gotQuery["q"])
	assert.Equal(t, "1", gotQuery["restrict_sr"])
	assert.Equal(t, "new", gotQuery["sort"])
	assert.Equal(t, "week", gotQuery["t"])
	assert.Equal(t, "25", gotQuery["limit"])

	// The post with an empty id fails validation and is dropped.
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "abc123", r.ID)
	assert.Equal(t, "Stripe keeps declining legitimate cards", r.Title)
	assert.Equal(t, "storekeeper", r.AuthorName)
	assert.Equal(t, "shopify", r.SourceChannel)
	assert.Equal(t, 47, r.Score)
	assert.Equal(t, 12, r.CommentCount)
	assert.Equal(t, int64(1756600000), r.CreatedAtEpoch)
	assert.Equal(t, "/r/shopify/comments/abc123/stripe_keeps_declining/", r.Permalink)
}

func TestSearch_RateLimitedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "shopify", "payment", model.WindowDay)
	require.Error(t, err)
	assert.True(t, resilience.IsRateLimited(err))

	var rle *resilience.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 30*time.Second, rle.RetryAfter)
}

func TestSearch_ServerErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "shopify", "payment", model.WindowAll)
	require.Error(t, err)
	assert.False(t, resilience.IsRateLimited(err))
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestSearch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"children": [`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "shopify", "payment", model.WindowWeek)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode listing")
}

func TestSearch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.Search(ctx, "shopify", "payment", model.WindowWeek)
	require.Error(t, err)
}
