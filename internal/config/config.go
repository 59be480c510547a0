package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchreel/internal/platform/logging"
)

const (
	FeedSourceSheet  = "sheet"
	FeedSourceEvents = "events"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	MetricsEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	SheetsBaseURL              string
	SheetsSpreadsheetID        string
	SheetsRange                string
	SheetsAPIKey               string
	ProviderBaseURL            string
	ProviderLeague             string
	ProviderTimeout            time.Duration
	ProviderMaxRetries         int
	ProviderEventsCount        int
	CircuitEnabled             bool
	CircuitFailureCount        int
	CircuitOpenTimeout         time.Duration
	CircuitHalfOpenMaxReq      int
	FetchConcurrency           int
	FeedSource                 string
	FeedSessionTTL             time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	sheetsBaseURL, err := parseBaseURL("SHEETS_BASE_URL", getEnv("SHEETS_BASE_URL", "https://sheets.googleapis.com"))
	if err != nil {
		return Config{}, err
	}
	sheetsSpreadsheetID := strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_ID", ""))
	if sheetsSpreadsheetID == "" {
		return Config{}, fmt.Errorf("SHEETS_SPREADSHEET_ID is required")
	}

	providerBaseURL, err := parseBaseURL("PROVIDER_BASE_URL", getEnv("PROVIDER_BASE_URL", "https://api.forzasys.com"))
	if err != nil {
		return Config{}, err
	}
	providerLeague := strings.Trim(strings.TrimSpace(getEnv("PROVIDER_LEAGUE", "allsvenskan")), "/")
	if providerLeague == "" {
		return Config{}, fmt.Errorf("PROVIDER_LEAGUE cannot be empty")
	}
	providerTimeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_TIMEOUT: %w", err)
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	providerMaxRetries, err := getEnvAsInt("PROVIDER_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_MAX_RETRIES: %w", err)
	}
	if providerMaxRetries < 0 {
		return Config{}, fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0")
	}
	providerEventsCount, err := getEnvAsInt("PROVIDER_EVENTS_COUNT", 100000)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_EVENTS_COUNT: %w", err)
	}
	if providerEventsCount < 1 {
		return Config{}, fmt.Errorf("PROVIDER_EVENTS_COUNT must be >= 1")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("PROVIDER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	fetchConcurrency, err := getEnvAsInt("FETCH_CONCURRENCY", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CONCURRENCY: %w", err)
	}
	if fetchConcurrency < 1 {
		return Config{}, fmt.Errorf("FETCH_CONCURRENCY must be >= 1")
	}

	feedSource, err := parseFeedSource(getEnv("FEED_SOURCE", FeedSourceSheet))
	if err != nil {
		return Config{}, err
	}
	feedSessionTTL, err := time.ParseDuration(getEnv("FEED_SESSION_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_SESSION_TTL: %w", err)
	}
	if feedSessionTTL <= 0 {
		return Config{}, fmt.Errorf("FEED_SESSION_TTL must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "matchreel-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		MetricsEnabled:             metricsEnabled,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		SheetsBaseURL:              sheetsBaseURL,
		SheetsSpreadsheetID:        sheetsSpreadsheetID,
		SheetsRange:                strings.TrimSpace(getEnv("SHEETS_RANGE", "A2:G")),
		SheetsAPIKey:               strings.TrimSpace(getEnv("SHEETS_API_KEY", "")),
		ProviderBaseURL:            providerBaseURL,
		ProviderLeague:             providerLeague,
		ProviderTimeout:            providerTimeout,
		ProviderMaxRetries:         providerMaxRetries,
		ProviderEventsCount:        providerEventsCount,
		CircuitEnabled:             circuitEnabled,
		CircuitFailureCount:        circuitFailureCount,
		CircuitOpenTimeout:         circuitOpenTimeout,
		CircuitHalfOpenMaxReq:      circuitHalfOpenMaxReq,
		FetchConcurrency:           fetchConcurrency,
		FeedSource:                 feedSource,
		FeedSessionTTL:             feedSessionTTL,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SheetsRange == "" {
		return Config{}, fmt.Errorf("SHEETS_RANGE cannot be empty")
	}
	if appEnv == EnvProd && cfg.SheetsAPIKey == "" {
		return Config{}, fmt.Errorf("SHEETS_API_KEY is required when APP_ENV=prod")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFeedSource(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case FeedSourceSheet, FeedSourceEvents:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FEED_SOURCE %q: valid values are %s, %s", v, FeedSourceSheet, FeedSourceEvents)
	}
}

func parseBaseURL(name, raw string) (string, error) {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%s must be an http(s) url, got %q", name, raw)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
