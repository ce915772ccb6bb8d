package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/confirm"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

type EndMatchOutcome string

const (
	EndMatchUnknown         EndMatchOutcome = "unknown"
	EndMatchBye             EndMatchOutcome = "bye"
	EndMatchAlreadyArchived EndMatchOutcome = "already_archived"
	EndMatchArchived        EndMatchOutcome = "archived"
)

type EndMatchResult struct {
	Outcome EndMatchOutcome
	// ChannelMissing reports the degraded path: the row was archived even
	// though the channel no longer exists.
	ChannelMissing bool
}

type EndTournamentResult struct {
	// Confirmed is false when this invocation only armed the confirmation
	// token; the operator must repeat the command before ExpiresAt.
	Confirmed bool
	ExpiresAt time.Time

	ChannelsDeleted   int
	ContainersDeleted int
	GroupsDeleted     int
}

type ArchiveService struct {
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	adapter   chat.Adapter
	confirms  confirm.Store
	// confirmTTL is the window inside which a teardown must be repeated.
	confirmTTL time.Duration
	// editDelay spaces successive permission-edit calls to respect platform
	// rate limits. Static, not adaptive.
	editDelay time.Duration
	logger    *logging.Logger
}

func NewArchiveService(
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	matches match.Repository,
	adapter chat.Adapter,
	confirms confirm.Store,
	confirmTTL time.Duration,
	editDelay time.Duration,
	logger *logging.Logger,
) *ArchiveService {
	if logger == nil {
		logger = logging.Default()
	}
	if confirmTTL <= 0 {
		confirmTTL = 30 * time.Second
	}
	return &ArchiveService{
		leagues:    leagues,
		divisions:  divisions,
		teams:      teams,
		matches:    matches,
		adapter:    adapter,
		confirms:   confirms,
		confirmTTL: confirmTTL,
		editDelay:  editDelay,
		logger:     logger,
	}
}

// EndMatch closes a match channel: posts the closing notice, rewrites every
// non-default principal override to read-only and archives the row. Unknown,
// bye and already-archived matches are distinct no-op outcomes. A vanished
// channel is logged and the row is archived anyway so it never sticks open.
func (s *ArchiveService) EndMatch(ctx context.Context, matchID int64) (EndMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "archive.EndMatch")
	defer span.End()

	row, ok, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return EndMatchResult{}, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if !ok {
		return EndMatchResult{Outcome: EndMatchUnknown}, nil
	}
	if row.Bye() {
		return EndMatchResult{Outcome: EndMatchBye}, nil
	}
	if row.Archived {
		return EndMatchResult{Outcome: EndMatchAlreadyArchived}, nil
	}

	channel, exists, err := s.adapter.Channel(ctx, row.ChannelID)
	if err != nil {
		return EndMatchResult{}, fmt.Errorf("resolve channel %d: %w", row.ChannelID, err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "match channel vanished, archiving anyway",
			"match_id", matchID, "channel_id", row.ChannelID)
		if err := s.matches.Archive(ctx, matchID); err != nil {
			return EndMatchResult{}, fmt.Errorf("archive match %d: %w", matchID, err)
		}
		return EndMatchResult{Outcome: EndMatchArchived, ChannelMissing: true}, nil
	}

	if _, err := s.adapter.SendMessage(ctx, channel.ID, chat.Outgoing{Content: closingNotice}); err != nil {
		s.logger.WarnContext(ctx, "closing notice failed", "match_id", matchID, "error", err)
	}

	for _, overwrite := range channel.Overwrites {
		if overwrite.Principal == chat.EveryonePrincipal {
			continue
		}
		readOnly := chat.Overwrite{Principal: overwrite.Principal, Read: true, Send: false}
		if err := s.adapter.UpdateChannelOverwrite(ctx, channel.ID, readOnly); err != nil {
			s.logger.WarnContext(ctx, "permission rewrite failed, continuing",
				"match_id", matchID, "principal", overwrite.Principal, "error", err)
		}
		if err := s.pause(ctx); err != nil {
			return EndMatchResult{}, err
		}
	}

	if err := s.matches.Archive(ctx, matchID); err != nil {
		return EndMatchResult{}, fmt.Errorf("archive match %d: %w", matchID, err)
	}
	return EndMatchResult{Outcome: EndMatchArchived}, nil
}

// EndTournament tears down every resource provisioned for a league. The
// first invocation only arms a confirmation token; a repeat inside the
// window proceeds. Deletion order is strict: match channels, team channels,
// containers, groups, then the rows.
func (s *ArchiveService) EndTournament(ctx context.Context, leagueID, operatorID int64, progress Progress) (EndTournamentResult, error) {
	ctx, span := startUsecaseSpan(ctx, "archive.EndTournament")
	defer span.End()

	if leagueID <= 0 {
		return EndTournamentResult{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if progress == nil {
		progress = NopProgress{}
	}

	key := fmt.Sprintf("%d:end-tournament:%d", operatorID, leagueID)
	if !s.confirms.Consume(key) {
		expiresAt := s.confirms.Arm(key, s.confirmTTL)
		return EndTournamentResult{Confirmed: false, ExpiresAt: expiresAt}, nil
	}

	result := EndTournamentResult{Confirmed: true}
	window := newDeletionWindow(deletedNamesWindow, progress)

	matches, err := s.matches.ListByLeague(ctx, leagueID)
	if err != nil {
		return result, fmt.Errorf("list matches for league %d: %w", leagueID, err)
	}
	for _, row := range matches {
		if row.ChannelID == 0 {
			continue
		}
		if s.deleteChannel(ctx, row.ChannelID, fmt.Sprintf("match %d", row.MatchID), window) {
			result.ChannelsDeleted++
		}
	}

	teams, err := s.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return result, fmt.Errorf("list teams for league %d: %w", leagueID, err)
	}
	for _, row := range teams {
		if row.ChannelID == 0 {
			continue
		}
		if s.deleteChannel(ctx, row.ChannelID, row.Name, window) {
			result.ChannelsDeleted++
		}
	}

	divisions, err := s.divisions.ListByLeague(ctx, leagueID)
	if err != nil {
		return result, fmt.Errorf("list divisions for league %d: %w", leagueID, err)
	}
	for _, row := range divisions {
		if err := s.adapter.DeleteContainer(ctx, row.ContainerID); err != nil {
			s.logger.WarnContext(ctx, "container deletion failed, continuing",
				"division", row.Label, "container_id", row.ContainerID, "error", err)
		} else {
			result.ContainersDeleted++
			window.record(ctx, row.Label)
		}
		if err := s.adapter.DeleteGroup(ctx, row.GroupID); err != nil {
			s.logger.WarnContext(ctx, "group deletion failed, continuing",
				"division", row.Label, "group_id", row.GroupID, "error", err)
		} else {
			result.GroupsDeleted++
		}
	}
	for _, row := range teams {
		if err := s.adapter.DeleteGroup(ctx, row.GroupID); err != nil {
			s.logger.WarnContext(ctx, "group deletion failed, continuing",
				"team", row.Name, "group_id", row.GroupID, "error", err)
		} else {
			result.GroupsDeleted++
		}
	}

	if err := s.matches.DeleteByLeague(ctx, leagueID); err != nil {
		return result, fmt.Errorf("purge matches for league %d: %w", leagueID, err)
	}
	if err := s.teams.DeleteByLeague(ctx, leagueID); err != nil {
		return result, fmt.Errorf("purge teams for league %d: %w", leagueID, err)
	}
	if err := s.divisions.DeleteByLeague(ctx, leagueID); err != nil {
		return result, fmt.Errorf("purge divisions for league %d: %w", leagueID, err)
	}
	if err := s.leagues.Delete(ctx, leagueID); err != nil {
		return result, fmt.Errorf("purge league %d: %w", leagueID, err)
	}

	return result, nil
}

func (s *ArchiveService) deleteChannel(ctx context.Context, channelID int64, name string, window *deletionWindow) bool {
	if err := s.adapter.DeleteChannel(ctx, channelID); err != nil {
		s.logger.WarnContext(ctx, "channel deletion failed, continuing",
			"name", name, "channel_id", channelID, "error", err)
		return false
	}
	window.record(ctx, name)
	return true
}

func (s *ArchiveService) pause(ctx context.Context) error {
	if s.editDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.editDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deletionWindow surfaces teardown progress as a rolling list of the last N
// deleted resource names; the full list would blow the message size limit.
type deletionWindow struct {
	size     int
	names    []string
	total    int
	progress Progress
}

func newDeletionWindow(size int, progress Progress) *deletionWindow {
	return &deletionWindow{size: size, progress: progress}
}

func (w *deletionWindow) record(ctx context.Context, name string) {
	w.total++
	w.names = append(w.names, name)
	if len(w.names) > w.size {
		w.names = w.names[1:]
	}
	w.progress.Update(ctx, fmt.Sprintf("Deleted %d resources. Last: %s", w.total, strings.Join(w.names, ", ")))
}
