package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/leaguehq/drawbridge/external/citadel"
	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/chat/chatfake"
	"github.com/leaguehq/drawbridge/internal/config"
	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/infrastructure/repository/memory"
	"github.com/leaguehq/drawbridge/internal/infrastructure/repository/postgres"
	"github.com/leaguehq/drawbridge/internal/interfaces/httpapi"
	"github.com/leaguehq/drawbridge/internal/platform/cache"
	"github.com/leaguehq/drawbridge/internal/platform/confirm"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/platform/resilience"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

type repositories struct {
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	synced    synceduser.Repository
	logs      chatlog.Repository
}

// App wires configuration, stores, the league-service client and every
// service into one runnable unit.
type App struct {
	Provision  *usecase.ProvisionService
	Matches    *usecase.MatchService
	Archive    *usecase.ArchiveService
	RoleSync   *usecase.RoleSyncService
	Launchpad  *usecase.LaunchpadService
	Guardrail  *usecase.GuardrailService
	Transcript *usecase.TranscriptService
	ChatLog    *usecase.ChatLogService

	HTTPServer *http.Server
	Dispatcher *EventDispatcher

	db     *sqlx.DB
	logger *logging.Logger
}

// New builds the full application. The adapter is the workspace platform
// seam; passing nil selects the in-process fake, which is what dev and tests
// run against until a gateway adapter is plugged in.
func New(cfg config.Config, adapter chat.Adapter, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(cfg.LogLevel)
	}

	var (
		repos repositories
		db    *sqlx.DB
		ping  httpapi.PingFunc
	)
	if cfg.DBURL != "" {
		conn, err := postgres.Connect(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("open entity store: %w", err)
		}
		db = conn
		ping = func(ctx context.Context) error { return conn.PingContext(ctx) }
		repos = repositories{
			leagues:   postgres.NewLeagueRepository(conn),
			divisions: postgres.NewDivisionRepository(conn),
			teams:     postgres.NewTeamRepository(conn),
			matches:   postgres.NewMatchRepository(conn),
			synced:    postgres.NewSyncedUserRepository(conn),
			logs:      postgres.NewChatLogRepository(conn),
		}
		logger.Info("entity store", "backend", "postgres")
	} else {
		repos = repositories{
			leagues:   memory.NewLeagueRepository(),
			divisions: memory.NewDivisionRepository(),
			teams:     memory.NewTeamRepository(),
			matches:   memory.NewMatchRepository(),
			synced:    memory.NewSyncedUserRepository(),
			logs:      memory.NewChatLogRepository(),
		}
		logger.Info("entity store", "backend", "memory")
	}

	if adapter == nil {
		adapter = chatfake.NewWorkspace()
		logger.Info("workspace adapter", "backend", "fake")
	}

	client := citadel.NewClient(citadel.ClientConfig{
		BaseURL:    cfg.CitadelBaseURL,
		APIKey:     cfg.CitadelAPIKey,
		Timeout:    cfg.CitadelTimeout,
		MaxRetries: cfg.CitadelMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CitadelCircuitEnabled,
			FailureThreshold: cfg.CitadelCircuitFailureCount,
			OpenTimeout:      cfg.CitadelCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CitadelCircuitHalfOpenMaxReq,
		},
	})

	groups := usecase.GroupTable(cfg.GroupTable)

	launchpad := usecase.NewLaunchpadService(repos.leagues, repos.divisions, repos.teams, repos.matches, adapter, cfg.LaunchpadChannelID, logger)
	roleSync := usecase.NewRoleSyncService(repos.synced, repos.teams, repos.divisions, client, adapter, groups, cfg.PrivilegedKeywords, logger)
	provision := usecase.NewProvisionService(repos.leagues, repos.divisions, repos.teams, client, adapter, groups, cfg.StaffKeywords, roleSync, launchpad, logger)
	matches := usecase.NewMatchService(repos.leagues, repos.divisions, repos.teams, repos.matches, client, adapter, groups, cfg.StaffKeywords, logger)
	archive := usecase.NewArchiveService(repos.leagues, repos.divisions, repos.teams, repos.matches, adapter, confirm.NewMemoryStore(), cfg.ConfirmTTL, cfg.EditDelay, logger)
	guardrail := usecase.NewGuardrailService(repos.leagues, repos.divisions, repos.teams, repos.matches, client, adapter, logger)
	transcript := usecase.NewTranscriptService(repos.logs, logger)
	chatLog := usecase.NewChatLogService(repos.logs, repos.matches, repos.teams, cache.NewStore(cfg.CacheTTL), logger)

	dispatcher, err := NewEventDispatcher(logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("build event dispatcher: %w", err)
	}
	if source, ok := adapter.(chat.EventSource); ok {
		dispatcher.Bind(source, chatLog, guardrail)
	} else {
		logger.Warn("workspace adapter emits no events, audit log and guardrail are inert")
	}

	handler := httpapi.NewHandler(launchpad, repos.leagues, repos.divisions, repos.teams, repos.matches, repos.synced, repos.logs, ping, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Provision:  provision,
		Matches:    matches,
		Archive:    archive,
		RoleSync:   roleSync,
		Launchpad:  launchpad,
		Guardrail:  guardrail,
		Transcript: transcript,
		ChatLog:    chatLog,
		HTTPServer: server,
		Dispatcher: dispatcher,
		db:         db,
		logger:     logger,
	}, nil
}

// Close releases the event worker and the entity store connection.
func (a *App) Close() error {
	a.Dispatcher.Release()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close entity store: %w", err)
		}
	}
	return nil
}
