package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	LogLevel       logging.Level

	// DBURL empty means the in-memory stores are used. Useful for dev and
	// for running against the fake workspace.
	DBURL string

	CitadelBaseURL               string
	CitadelAPIKey                string
	CitadelTimeout               time.Duration
	CitadelMaxRetries            int
	CitadelCircuitEnabled        bool
	CitadelCircuitFailureCount   int
	CitadelCircuitOpenTimeout    time.Duration
	CitadelCircuitHalfOpenMaxReq int

	// GroupTable maps workspace permission-group names to platform ids,
	// parsed from "Name:id,Name:id". Keyword lists match against the names.
	GroupTable         map[string]int64
	StaffKeywords      []string
	PrivilegedKeywords []string

	LaunchpadChannelID int64
	ConfirmTTL         time.Duration
	EditDelay          time.Duration
	CacheTTL           time.Duration

	PprofEnabled   bool
	PprofAddr      string
	UptraceEnabled bool
	UptraceDSN     string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT must be > 0")
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be > 0")
	}

	citadelTimeout, err := time.ParseDuration(getEnv("CITADEL_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_TIMEOUT: %w", err)
	}
	if citadelTimeout <= 0 {
		return Config{}, fmt.Errorf("CITADEL_TIMEOUT must be > 0")
	}
	citadelMaxRetries, err := getEnvAsInt("CITADEL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_MAX_RETRIES: %w", err)
	}
	if citadelMaxRetries < 0 {
		return Config{}, fmt.Errorf("CITADEL_MAX_RETRIES must be >= 0")
	}
	citadelCircuitEnabled, err := strconv.ParseBool(getEnv("CITADEL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_CIRCUIT_ENABLED: %w", err)
	}
	citadelCircuitFailureCount, err := getEnvAsInt("CITADEL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if citadelCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CITADEL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	citadelCircuitOpenTimeout, err := time.ParseDuration(getEnv("CITADEL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if citadelCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CITADEL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	citadelCircuitHalfOpenMaxReq, err := getEnvAsInt("CITADEL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CITADEL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if citadelCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CITADEL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	citadelBaseURL := strings.TrimSpace(getEnv("CITADEL_BASE_URL", "https://citadel.tf2pickup.org"))
	citadelAPIKey := strings.TrimSpace(getEnv("CITADEL_API_KEY", ""))

	groupTable, err := parseGroupTable(getEnv("WORKSPACE_GROUP_MAP", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse WORKSPACE_GROUP_MAP: %w", err)
	}

	launchpadChannelID, err := getEnvAsInt64("LAUNCHPAD_CHANNEL_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LAUNCHPAD_CHANNEL_ID: %w", err)
	}
	if launchpadChannelID < 0 {
		return Config{}, fmt.Errorf("LAUNCHPAD_CHANNEL_ID must be >= 0")
	}

	confirmTTL, err := time.ParseDuration(getEnv("CONFIRM_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CONFIRM_TTL: %w", err)
	}
	if confirmTTL <= 0 {
		return Config{}, fmt.Errorf("CONFIRM_TTL must be > 0")
	}
	editDelay, err := time.ParseDuration(getEnv("EDIT_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EDIT_DELAY: %w", err)
	}
	if editDelay < 0 {
		return Config{}, fmt.Errorf("EDIT_DELAY must be >= 0")
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "drawbridge"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		CORSOrigins:    splitCSV(getEnv("APP_CORS_ORIGINS", "*")),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CitadelBaseURL:               citadelBaseURL,
		CitadelAPIKey:                citadelAPIKey,
		CitadelTimeout:               citadelTimeout,
		CitadelMaxRetries:            citadelMaxRetries,
		CitadelCircuitEnabled:        citadelCircuitEnabled,
		CitadelCircuitFailureCount:   citadelCircuitFailureCount,
		CitadelCircuitOpenTimeout:    citadelCircuitOpenTimeout,
		CitadelCircuitHalfOpenMaxReq: citadelCircuitHalfOpenMaxReq,

		GroupTable:         groupTable,
		StaffKeywords:      splitCSV(getEnv("STAFF_KEYWORDS", "ADMIN,!AC")),
		PrivilegedKeywords: splitCSV(getEnv("PRIVILEGED_KEYWORDS", "ADMIN")),

		LaunchpadChannelID: launchpadChannelID,
		ConfirmTTL:         confirmTTL,
		EditDelay:          editDelay,
		CacheTTL:           cacheTTL,

		PprofEnabled:   pprofEnabled,
		PprofAddr:      pprofAddr,
		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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

// parseGroupTable parses "League Admin:930,Moderator:910" into a name to id
// map.
func parseGroupTable(raw string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected name:id", item)
		}

		name := strings.TrimSpace(segments[0])
		if name == "" {
			return nil, fmt.Errorf("empty group name in item %q", item)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(segments[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id in item %q: %w", item, err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("id must be > 0 in item %q", item)
		}

		out[name] = id
	}
	return out, nil
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

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
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
