package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

// PingFunc checks the backing store. Nil means there is nothing to ping
// (the in-memory stores are always reachable).
type PingFunc func(ctx context.Context) error

type Handler struct {
	launchpad *usecase.LaunchpadService
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	synced    synceduser.Repository
	logs      chatlog.Repository
	ping      PingFunc
	logger    *logging.Logger
}

func NewHandler(
	launchpad *usecase.LaunchpadService,
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	matches match.Repository,
	synced synceduser.Repository,
	logs chatlog.Repository,
	ping PingFunc,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		launchpad: launchpad,
		leagues:   leagues,
		divisions: divisions,
		teams:     teams,
		matches:   matches,
		synced:    synced,
		logs:      logs,
		ping:      ping,
		logger:    logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check ping failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: database ping: %v", usecase.ErrExternalService, err))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsDTO struct {
	Leagues     int `json:"leagues"`
	Divisions   int `json:"divisions"`
	Teams       int `json:"teams"`
	Matches     int `json:"matches"`
	SyncedUsers int `json:"syncedUsers"`
	LogEntries  int `json:"logEntries"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	var stats statsDTO
	counts := []struct {
		dst   *int
		name  string
		count func(context.Context) (int, error)
	}{
		{&stats.Leagues, "leagues", h.leagues.Count},
		{&stats.Divisions, "divisions", h.divisions.Count},
		{&stats.Teams, "teams", h.teams.Count},
		{&stats.Matches, "matches", h.matches.Count},
		{&stats.SyncedUsers, "synced users", h.synced.Count},
		{&stats.LogEntries, "log entries", h.logs.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "count failed", "entity", c.name, "error", err)
			writeError(ctx, w, err)
			return
		}
		*c.dst = n
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

type launchpadDTO struct {
	Content string `json:"content"`
}

func (h *Handler) GetLaunchpad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLaunchpad")
	defer span.End()

	view, err := h.launchpad.RenderView(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "render launchpad failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, launchpadDTO{Content: view})
}
