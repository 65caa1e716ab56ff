// Package client executes WCPS queries against a server and decodes the
// responses. Queries are built with pkg/wcps and passed in as text, so
// anything accepted by the server's ProcessCoverages operation works here.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rasdaman/wcps-go-client/internal/httpclient"
	"github.com/rasdaman/wcps-go-client/internal/logger"
	"github.com/rasdaman/wcps-go-client/internal/metrics"
	"github.com/rasdaman/wcps-go-client/internal/ows"
)

// Client talks to one WCPS endpoint. It is safe for concurrent use.
type Client struct {
	endpoint string
	username string
	password string
	http     *http.Client
	log      zerolog.Logger
	metrics  *metrics.ClientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth attaches credentials sent with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the default outbound HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger replaces the default discard logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics instruments requests with the given collectors.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a client for the given service URL, e.g.
// https://ows.rasdaman.org/rasdaman/ows.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = ows.Endpoint(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("client: endpoint must not be empty")
	}
	c := &Client{
		endpoint: endpoint,
		http:     httpclient.NewOutbound(0, 0),
		log:      zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Renderable is satisfied by wcps.Expr; any query source with a Render
// method works.
type Renderable interface {
	Render() (string, error)
}

// ExecuteRaw sends the query and returns the undecoded response body with
// its content type. Server-side failures come back as a *ServerError.
func (c *Client) ExecuteRaw(ctx context.Context, query string) ([]byte, string, error) {
	body, contentType, _, err := c.do(ctx, "ProcessCoverages", ows.BuildProcessCoverages(query), query)
	return body, contentType, err
}

// Execute renders the query if needed, sends it, and decodes the response
// into a Result based on the response content type.
func (c *Client) Execute(ctx context.Context, query string) (Result, error) {
	body, contentType, err := c.ExecuteRaw(ctx, query)
	if err != nil {
		return Result{}, err
	}
	return decode(body, contentType), nil
}

// ExecuteExpr is Execute for an unrendered expression.
func (c *Client) ExecuteExpr(ctx context.Context, expr Renderable) (Result, error) {
	query, err := expr.Render()
	if err != nil {
		return Result{}, err
	}
	return c.Execute(ctx, query)
}

// Download executes the query and writes the raw response body to path.
// Useful with an encode() query root producing an image or archive.
func (c *Client) Download(ctx context.Context, query, path string) error {
	body, _, err := c.ExecuteRaw(ctx, query)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("client: write %s: %w", path, err)
	}
	return nil
}

// Capabilities fetches the raw GetCapabilities document.
func (c *Client) Capabilities(ctx context.Context) ([]byte, error) {
	body, _, _, err := c.do(ctx, "GetCapabilities", ows.BuildGetCapabilities(), "")
	return body, err
}

// DescribeCoverage fetches the raw DescribeCoverage document for one
// coverage id.
func (c *Client) DescribeCoverage(ctx context.Context, coverageID string) ([]byte, error) {
	body, _, _, err := c.do(ctx, "DescribeCoverage", ows.BuildDescribeCoverage(coverageID), "")
	return body, err
}

// Endpoint returns the normalized service URL this client targets.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) do(ctx context.Context, operation string, params interface{ Encode() string }, query string) ([]byte, string, int, error) {
	if query != "" {
		ctx = logger.WithQueryFingerprint(ctx, ows.Fingerprint(query))
	}
	log := logger.FromContext(ctx, &c.log)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("client: build request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(operation, "error", start, 0)
		log.Error().Err(err).Str("operation", operation).Msg("wcps request failed")
		return nil, "", 0, fmt.Errorf("client: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(operation, "error", start, 0)
		return nil, "", resp.StatusCode, fmt.Errorf("client: %s: read response: %w", operation, err)
	}
	c.observe(operation, strconv.Itoa(resp.StatusCode), start, len(body))

	if resp.StatusCode != http.StatusOK {
		serr := &ServerError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if exc, ok := ows.ParseExceptionReport(body); ok {
			serr.Code = exc.Code
			if exc.Text != "" {
				serr.Message = exc.Text
			}
		}
		log.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("exception_code", serr.Code).
			Msg("wcps request rejected")
		return nil, "", resp.StatusCode, serr
	}

	log.Debug().
		Str("operation", operation).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("wcps request done")
	return body, resp.Header.Get("Content-Type"), resp.StatusCode, nil
}

func (c *Client) observe(operation, status string, start time.Time, bytes int) {
	if c.metrics == nil {
		return
	}
	c.metrics.Requests.WithLabelValues(operation, status).Inc()
	c.metrics.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if bytes > 0 {
		c.metrics.ResponseBytes.WithLabelValues(operation).Observe(float64(bytes))
	}
}
