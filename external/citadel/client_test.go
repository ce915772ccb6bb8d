package citadel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Logger:  logging.NewNop(),
	})
	return client, server
}

func TestGetLeagueMapsPayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/leagues/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get(apiKeyHeader) != "test-key" {
			t.Errorf("missing api key header")
		}
		_, _ = w.Write([]byte(`{
			"id": 42,
			"name": "Season 30",
			"rosters": [
				{"id": 900, "team_id": 10, "name": "Alpha", "division": "Open"},
				{"id": 901, "team_id": 11, "name": "Bravo", "division": "Main"}
			],
			"matches": [
				{"id": 1001, "status": "pending", "round_number": 3},
				{"id": 1002, "status": "confirmed", "round_number": 1}
			]
		}`))
	}))

	league, err := client.GetLeague(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetLeague: %v", err)
	}
	if league.ID != 42 || league.Name != "Season 30" {
		t.Fatalf("unexpected league %+v", league)
	}
	if len(league.Rosters) != 2 || league.Rosters[0].DivisionLabel != "Open" {
		t.Fatalf("unexpected rosters %+v", league.Rosters)
	}
	if len(league.Matches) != 2 || league.Matches[1].Status != "confirmed" {
		t.Fatalf("unexpected matches %+v", league.Matches)
	}
}

func TestGetLeagueRejectsIncompletePayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))

	_, err := client.GetLeague(context.Background(), 42)
	if !crerr.Is(err, usecase.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestGetMatchByeHasNilAwaySide(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 1002,
			"round_number": 1,
			"round_name": "Week 1",
			"status": "pending",
			"league_id": 42,
			"home_team": {"id": 10, "name": "Alpha"},
			"away_team": null
		}`))
	}))

	match, err := client.GetMatch(context.Background(), 1002)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if match.HomeTeam == nil || match.HomeTeam.ID != 10 {
		t.Fatalf("unexpected home side %+v", match.HomeTeam)
	}
	if match.AwayTeam != nil {
		t.Fatalf("expected nil away side, got %+v", match.AwayTeam)
	}
}

func TestGetUserByPlatformIDAbsenceIsNotAnError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such user", http.StatusNotFound)
	}))

	user, found, err := client.GetUserByPlatformID(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetUserByPlatformID: %v", err)
	}
	if found {
		t.Fatalf("expected absence, got %+v", user)
	}
}

func TestGetUserByPlatformIDServerFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, _, err := client.GetUserByPlatformID(context.Background(), 555)
	if !crerr.Is(err, usecase.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	var apiErr *APIError
	if !crerr.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected status 403 api error, got %v", err)
	}
}

func TestGetTeamRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id": 10, "name": "Alpha", "players": [{"id": 7, "name": "cap", "is_captain": true}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	team, err := client.GetTeam(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(team.Players) != 1 || !team.Players[0].IsCaptain {
		t.Fatalf("unexpected players %+v", team.Players)
	}
}
