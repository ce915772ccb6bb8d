package citadel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/platform/resilience"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

const apiKeyHeader = "X-Api-Key"

var errCitadelTransient = crerr.New("citadel transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is the read-only league service accessor. It satisfies
// usecase.LeagueClient.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) GetLeague(ctx context.Context, leagueID int64) (usecase.ExternalLeague, error) {
	if leagueID <= 0 {
		return usecase.ExternalLeague{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload leaguePayload
	if err := c.doJSON(ctx, fmt.Sprintf("/api/v1/leagues/%d", leagueID), &payload); err != nil {
		return usecase.ExternalLeague{}, fmt.Errorf("fetch league league_id=%d: %w", leagueID, err)
	}
	if err := validate.Struct(payload); err != nil {
		return usecase.ExternalLeague{}, fmt.Errorf("%w: league payload league_id=%d: %v", usecase.ErrExternalService, leagueID, err)
	}
	return mapLeague(payload), nil
}

func (c *Client) GetTeam(ctx context.Context, teamID int64) (usecase.ExternalTeam, error) {
	if teamID <= 0 {
		return usecase.ExternalTeam{}, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload teamPayload
	if err := c.doJSON(ctx, fmt.Sprintf("/api/v1/teams/%d", teamID), &payload); err != nil {
		return usecase.ExternalTeam{}, fmt.Errorf("fetch team team_id=%d: %w", teamID, err)
	}
	if err := validate.Struct(payload); err != nil {
		return usecase.ExternalTeam{}, fmt.Errorf("%w: team payload team_id=%d: %v", usecase.ErrExternalService, teamID, err)
	}
	return mapTeam(payload), nil
}

func (c *Client) GetMatch(ctx context.Context, matchID int64) (usecase.ExternalMatch, error) {
	if matchID <= 0 {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload matchPayload
	if err := c.doJSON(ctx, fmt.Sprintf("/api/v1/matches/%d", matchID), &payload); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("fetch match match_id=%d: %w", matchID, err)
	}
	if err := validate.Struct(payload); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: match payload match_id=%d: %v", usecase.ErrExternalService, matchID, err)
	}
	return mapMatch(payload), nil
}

func (c *Client) GetUser(ctx context.Context, userID int64) (usecase.ExternalUser, error) {
	if userID <= 0 {
		return usecase.ExternalUser{}, fmt.Errorf("%w: user id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload userPayload
	if err := c.doJSON(ctx, fmt.Sprintf("/api/v1/users/%d", userID), &payload); err != nil {
		return usecase.ExternalUser{}, fmt.Errorf("fetch user user_id=%d: %w", userID, err)
	}
	if err := validate.Struct(payload); err != nil {
		return usecase.ExternalUser{}, fmt.Errorf("%w: user payload user_id=%d: %v", usecase.ErrExternalService, userID, err)
	}
	return mapUser(payload), nil
}

// GetUserByPlatformID reports an unlinked account as absence, not an error.
func (c *Client) GetUserByPlatformID(ctx context.Context, platformID int64) (usecase.ExternalUser, bool, error) {
	if platformID <= 0 {
		return usecase.ExternalUser{}, false, fmt.Errorf("%w: platform id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload userPayload
	err := c.doJSON(ctx, fmt.Sprintf("/api/v1/users/platform/%d", platformID), &payload)
	if err != nil {
		var apiErr *APIError
		if crerr.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return usecase.ExternalUser{}, false, nil
		}
		return usecase.ExternalUser{}, false, fmt.Errorf("fetch user platform_id=%d: %w", platformID, err)
	}
	if err := validate.Struct(payload); err != nil {
		return usecase.ExternalUser{}, false, fmt.Errorf("%w: user payload platform_id=%d: %v", usecase.ErrExternalService, platformID, err)
	}
	return mapUser(payload), true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "citadel circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: league service is temporarily unavailable", usecase.ErrExternalService)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errCitadelTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode league payload: %v", usecase.ErrExternalService, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCitadelTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCitadelTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: status=%d body=%s", errCitadelTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				apiErr := &APIError{Status: resp.StatusCode, Message: abbreviateBody(raw)}
				return nil, fmt.Errorf("%w: %w", usecase.ErrExternalService, apiErr)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("league service request failed")
	}
	c.logger.WarnContext(ctx, "citadel request failed", "url", fullURL, "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrExternalService, lastErr)
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
