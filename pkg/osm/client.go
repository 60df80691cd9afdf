// Package osm provides a read-only client for the OpenStreetMap API 0.6
// bulk node lookup.
package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/phonefix-cli/internal/model"
)

const defaultBaseURL = "https://api.openstreetmap.org/api/0.6"

// Client fetches full node records by id.
type Client interface {
	// Nodes fetches every id in batches and returns the nodes in batch
	// order, then response order within a batch.
	Nodes(ctx context.Context, ids []int64) ([]model.Node, error)
}

// NodesResponse is the JSON body of GET /nodes.
type NodesResponse struct {
	Version   string    `json:"version"`
	Generator string    `json:"generator"`
	Elements  []Element `json:"elements"`
}

// Element is a node as the API serialises it.
type Element struct {
	Type      string            `json:"type"`
	ID        int64             `json:"id"`
	Lat       float64           `json:"lat"`
	Lon       float64           `json:"lon"`
	Timestamp string            `json:"timestamp"`
	Version   int               `json:"version"`
	Changeset int64             `json:"changeset"`
	User      string            `json:"user"`
	UID       int64             `json:"uid"`
	Visible   *bool             `json:"visible,omitempty"`
	Tags      map[string]string `json:"tags"`
}

// Node converts the wire element into the internal record, moving tags to Tag.
func (e Element) Node() model.Node {
	tags := e.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return model.Node{
		ID:        e.ID,
		Lat:       e.Lat,
		Lon:       e.Lon,
		Version:   e.Version,
		Changeset: e.Changeset,
		User:      e.User,
		UID:       e.UID,
		Timestamp: e.Timestamp,
		Visible:   e.Visible,
		Tag:       tags,
	}
}

// ParseNodes decodes a /nodes response body into nodes in response order.
func ParseNodes(body []byte) ([]model.Node, error) {
	var resp NodesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "osm: unmarshal nodes response")
	}

	nodes := make([]model.Node, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		nodes = append(nodes, el.Node())
	}
	return nodes, nil
}

// Option configures the OSM client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithBatchLimits overrides the per-request id string length and id count.
func WithBatchLimits(maxStringLength, maxIDs int) Option {
	return func(c *httpClient) {
		c.maxStringLength = maxStringLength
		c.maxIDs = maxIDs
	}
}

// WithConcurrency sets how many batches may be in flight at once.
func WithConcurrency(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRateLimit caps requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL         string
	http            *http.Client
	maxStringLength int
	maxIDs          int
	concurrency     int
	limiter         *rate.Limiter
}

// NewClient creates a new OSM API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:         defaultBaseURL,
		http:            &http.Client{Timeout: 60 * time.Second},
		maxStringLength: DefaultMaxStringLength,
		maxIDs:          DefaultMaxIDs,
		concurrency:     1,
		limiter:         rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Nodes(ctx context.Context, ids []int64) ([]model.Node, error) {
	batches := BatchIDs(ids, c.maxStringLength, c.maxIDs)
	if len(batches) == 0 {
		return nil, nil
	}

	zap.L().Info("osm: fetching nodes",
		zap.Int("ids", len(ids)),
		zap.Int("batches", len(batches)),
		zap.Int("concurrency", c.concurrency),
	)

	results := make([][]model.Node, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			nodes, err := c.fetchBatch(gctx, batch)
			if err != nil {
				return eris.Wrapf(err, "osm: batch %d of %d", i+1, len(batches))
			}
			results[i] = nodes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Node
	for _, nodes := range results {
		out = append(out, nodes...)
	}
	return out, nil
}

func (c *httpClient) fetchBatch(ctx context.Context, batch []string) ([]model.Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "osm: rate limit wait")
	}

	reqURL := fmt.Sprintf("%s/nodes?nodes=%s", c.baseURL, strings.Join(batch, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "osm: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "osm: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "osm: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("osm: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	nodes, err := ParseNodes(body)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("osm: batch fetched",
		zap.Int("requested", len(batch)),
		zap.Int("returned", len(nodes)),
	)
	return nodes, nil
}
