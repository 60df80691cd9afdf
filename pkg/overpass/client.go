// Package overpass provides a client for the Overpass API query interpreter.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultURL = "https://overpass-api.de/api/interpreter"

// Client runs Overpass QL queries.
type Client interface {
	// NodeIDs runs query and returns the ids of the matching nodes in
	// response order.
	NodeIDs(ctx context.Context, query string) ([]int64, error)
}

// Response is the JSON body returned by the interpreter for [out:json].
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// Element is a single result element.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat,omitempty"`
	Lon  float64           `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Area selects a boundary relation by a single tag, e.g. ISO3166-2=NL-GR.
type Area struct {
	Key   string
	Value string
}

// BuildQuery renders the Overpass QL query selecting every node inside area
// that carries filterTag. Only ids are requested.
func BuildQuery(area Area, filterTag string, timeout time.Duration) string {
	var b strings.Builder
	b.WriteString("[out:json]")
	if secs := int(timeout.Seconds()); secs > 0 {
		fmt.Fprintf(&b, "[timeout:%d]", secs)
	}
	fmt.Fprintf(&b, ";area[%s=%s]->.boundary;", quote(area.Key), quote(area.Value))
	fmt.Fprintf(&b, "node(area.boundary)[%s];out ids;", quote(filterTag))
	return b.String()
}

// quote renders s as an Overpass QL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Option configures the Overpass client.
type Option func(*httpClient)

// WithURL sets the interpreter endpoint (for testing or a mirror).
func WithURL(u string) Option {
	return func(c *httpClient) {
		c.url = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	url  string
	http *http.Client
}

// NewClient creates a new Overpass client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		url:  defaultURL,
		http: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) NodeIDs(ctx context.Context, query string) ([]int64, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	zap.L().Debug("overpass: query", zap.String("url", c.url), zap.String("query", query))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("overpass: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "overpass: unmarshal response")
	}

	// The interpreter reports runtime errors (timeouts, memory) in remark
	// with a 200 status.
	if strings.Contains(result.Remark, "runtime error") {
		return nil, eris.Errorf("overpass: %s", result.Remark)
	}

	ids := make([]int64, 0, len(result.Elements))
	for _, el := range result.Elements {
		if el.Type != "" && el.Type != "node" {
			continue
		}
		ids = append(ids, el.ID)
	}
	return ids, nil
}
