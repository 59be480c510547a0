package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/riskibarqy/matchreel/internal/platform/resilience"
	"github.com/riskibarqy/matchreel/internal/platform/upstream"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com"
	defaultRange   = "A2:G"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	SpreadsheetID  string
	Range          string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.BreakerConfig
}

// Client reads the highlights spreadsheet through the Sheets v4 values endpoint.
type Client struct {
	http          *upstream.Client
	baseURL       string
	spreadsheetID string
	valueRange    string
	apiKey        string
}

type valuesEnvelope struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	valueRange := strings.TrimSpace(cfg.Range)
	if valueRange == "" {
		valueRange = defaultRange
	}

	return &Client{
		http: upstream.NewClient(upstream.Config{
			Name:            "sheets",
			HTTPClient:      cfg.HTTPClient,
			Timeout:         cfg.Timeout,
			MaxRetries:      cfg.MaxRetries,
			RedactQueryKeys: []string{"key"},
			Logger:          cfg.Logger,
			Metrics:         cfg.Metrics,
			CircuitBreaker:  cfg.CircuitBreaker,
		}),
		baseURL:       baseURL,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		valueRange:    valueRange,
		apiKey:        strings.TrimSpace(cfg.APIKey),
	}
}

// FetchRows returns the raw value rows. Trailing empty cells are omitted by the API, so
// rows may be shorter than the sheet is wide.
func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	if c.spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	var envelope valuesEnvelope
	if err := c.http.GetJSON(ctx, c.valuesURL(), &envelope); err != nil {
		return nil, fmt.Errorf("fetch sheet values range=%s: %w", c.valueRange, err)
	}
	if envelope.Values == nil {
		return [][]string{}, nil
	}
	return envelope.Values, nil
}

func (c *Client) valuesURL() string {
	fullURL := c.baseURL + "/v4/spreadsheets/" + url.PathEscape(c.spreadsheetID) + "/values/" + url.PathEscape(c.valueRange)
	if c.apiKey == "" {
		return fullURL
	}
	return fullURL + "?" + url.Values{"key": []string{c.apiKey}}.Encode()
}
