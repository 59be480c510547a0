// Package upstream is the shared HTTP core of the third-party data clients:
// circuit breaker, in-flight request collapsing, bounded retries and JSON decoding.
package upstream

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/riskibarqy/matchreel/internal/platform/resilience"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 6 << 20
	defaultRetryBackoff = time.Second
)

// ErrTransient marks failures worth retrying and counting against the breaker.
var ErrTransient = crerr.New("upstream transient failure")

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = crerr.New("upstream temporarily unavailable")

type Config struct {
	Name            string
	HTTPClient      *http.Client
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxBodyBytes    int64
	RedactQueryKeys []string
	Logger          *logging.Logger
	Metrics         *metrics.Recorder
	CircuitBreaker  resilience.BreakerConfig
}

type Client struct {
	name           string
	httpClient     *http.Client
	maxRetries     int
	retryBackoff   time.Duration
	maxBodyBytes   int64
	redactKeys     []string
	redactPatterns []*regexp.Regexp
	logger         *logging.Logger
	metrics        *metrics.Recorder
	breaker        *resilience.Breaker
	flight         resilience.Group[[]byte]
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "upstream"
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.RedactQueryKeys))
	for _, key := range cfg.RedactQueryKeys {
		patterns = append(patterns, regexp.MustCompile(regexp.QuoteMeta(key)+`=[^&\s"']+`))
	}

	return &Client{
		name:           name,
		httpClient:     httpClient,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		maxBodyBytes:   maxBody,
		redactKeys:     cfg.RedactQueryKeys,
		redactPatterns: patterns,
		logger:         logger.Named(name),
		metrics:        cfg.Metrics,
		breaker:        resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches fullURL and decodes the body into target.
// Concurrent calls for the same URL share one round trip, which is bounded by the client
// timeout and keeps running when the caller that started it goes away.
func (c *Client) GetJSON(ctx context.Context, fullURL string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	flightCtx := context.WithoutCancel(ctx)
	raw, err, _ := c.flight.DoContext(ctx, fullURL, func() ([]byte, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(flightCtx, "circuit breaker rejected request", "state", c.breaker.State(), "url", c.redact(fullURL))
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, c.name)
		}
		raw, reqErr := c.executeRequest(flightCtx, fullURL)
		c.breaker.Record(IsTransient(reqErr))
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", c.name, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		started := time.Now()
		raw, err := c.roundTrip(ctx, fullURL)
		c.metrics.ObserveUpstream(c.name, time.Since(started), err)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !IsTransient(err) || ctx.Err() != nil {
			break
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "upstream request failed", "url", c.redact(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("send request: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: send request: %s", ErrTransient, c.redactText(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s status=%d body=%s", ErrTransient, c.name, resp.StatusCode, abbreviateBody(raw))
	}
	return nil, fmt.Errorf("%s status=%d body=%s", c.name, resp.StatusCode, abbreviateBody(raw))
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, ErrTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) redact(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	changed := false
	for _, key := range c.redactKeys {
		if query.Has(key) {
			query.Set(key, "REDACTED")
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// redactText scrubs secret query values out of transport error messages, which embed the URL.
func (c *Client) redactText(text string) string {
	for i, pattern := range c.redactPatterns {
		text = pattern.ReplaceAllString(text, c.redactKeys[i]+"=REDACTED")
	}
	return text
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
