package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/platform/template"
)

type MatchOutcome string

const (
	MatchCreated          MatchOutcome = "created"
	MatchAlreadyGenerated MatchOutcome = "already_generated"
	MatchBye              MatchOutcome = "bye"
)

type MatchResult struct {
	Outcome MatchOutcome
	Match   match.Match
}

type RoundResult struct {
	Generated int
	Byes      int
	Skipped   int
	Failed    int
}

type MatchService struct {
	leagues       league.Repository
	divisions     division.Repository
	teams         team.Repository
	matches       match.Repository
	client        LeagueClient
	adapter       chat.Adapter
	groups        GroupTable
	staffKeywords []string
	logger        *logging.Logger
}

func NewMatchService(
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	matches match.Repository,
	client LeagueClient,
	adapter chat.Adapter,
	groups GroupTable,
	staffKeywords []string,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		leagues:       leagues,
		divisions:     divisions,
		teams:         teams,
		matches:       matches,
		client:        client,
		adapter:       adapter,
		groups:        groups,
		staffKeywords: staffKeywords,
		logger:        logger,
	}
}

// GenerateMatch creates the channel and row for one fixture. The presence of
// a match row is the idempotency signal: a second invocation with the same id
// reports already generated and does nothing. Byes never get a channel and
// are archived in the same operation.
func (s *MatchService) GenerateMatch(ctx context.Context, matchID int64, extra []chat.Overwrite) (MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "match.GenerateMatch")
	defer span.End()

	if matchID <= 0 {
		return MatchResult{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	if existing, ok, err := s.matches.GetByID(ctx, matchID); err != nil {
		return MatchResult{}, fmt.Errorf("check match %d: %w", matchID, err)
	} else if ok {
		return MatchResult{Outcome: MatchAlreadyGenerated, Match: existing}, nil
	}

	ext, err := s.client.GetMatch(ctx, matchID)
	if err != nil {
		return MatchResult{}, fmt.Errorf("generate match %d: %w", matchID, err)
	}
	if ext.HomeTeam == nil {
		return MatchResult{}, fmt.Errorf("%w: match %d has no home team", ErrExternalService, matchID)
	}

	home, ok, err := s.teams.GetByTeamAndLeague(ctx, ext.HomeTeam.ID, ext.LeagueID)
	if err != nil {
		return MatchResult{}, fmt.Errorf("resolve home team %d: %w", ext.HomeTeam.ID, err)
	}
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: team %d is not provisioned in league %d", ErrNotFound, ext.HomeTeam.ID, ext.LeagueID)
	}

	if ext.AwayTeam == nil {
		return s.generateBye(ctx, ext, home)
	}

	away, ok, err := s.teams.GetByTeamAndLeague(ctx, ext.AwayTeam.ID, ext.LeagueID)
	if err != nil {
		return MatchResult{}, fmt.Errorf("resolve away team %d: %w", ext.AwayTeam.ID, err)
	}
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: team %d is not provisioned in league %d", ErrNotFound, ext.AwayTeam.ID, ext.LeagueID)
	}

	div, ok, err := s.divisions.GetByLabel(ctx, ext.LeagueID, ext.DivisionLabel)
	if err != nil {
		return MatchResult{}, fmt.Errorf("resolve division %q: %w", ext.DivisionLabel, err)
	}
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: division %q is not provisioned in league %d", ErrNotFound, ext.DivisionLabel, ext.LeagueID)
	}

	overwrites := buildOverwrites(
		chat.Overwrite{Principal: chat.EveryonePrincipal},
		s.groups.Match(s.staffKeywords),
		[]int64{home.GroupID, away.GroupID},
		extra,
	)

	name := composeChannelName(fmt.Sprintf("%s vs %s %s", home.Name, away.Name, roundLabel(ext)))
	if truncated, cut := template.Truncate(name, ChannelNameRuneLimit); cut {
		s.logger.WarnContext(ctx, "name exceeds platform limit, truncated",
			"what", "match channel name", "name", name, "limit", ChannelNameRuneLimit)
		name = truncated
	}

	channel, err := s.adapter.CreateChannel(ctx, name, div.ContainerID, overwrites)
	if err != nil {
		return MatchResult{}, fmt.Errorf("create channel for match %d: %w", matchID, err)
	}

	leagueName := ""
	if record, ok, err := s.leagues.GetByID(ctx, ext.LeagueID); err == nil && ok {
		leagueName = record.Name
	}
	announcement := matchTemplate.Substitute(map[string]string{
		"{HOME_TEAM}":   home.Name,
		"{AWAY_TEAM}":   away.Name,
		"{ROUND_NAME}":  roundLabel(ext),
		"{MATCH_ID}":    strconv.FormatInt(matchID, 10),
		"{LEAGUE_NAME}": leagueName,
	})
	if _, err := s.adapter.SendMessage(ctx, channel.ID, chat.Outgoing{Content: announcement.RenderText()}); err != nil {
		return MatchResult{}, fmt.Errorf("post announcement for match %d: %w", matchID, err)
	}

	row := match.Match{
		MatchID:    matchID,
		DivisionID: div.ID,
		HomeTeamID: home.TeamID,
		AwayTeamID: away.TeamID,
		ChannelID:  channel.ID,
		LeagueID:   ext.LeagueID,
	}
	if err := s.matches.Insert(ctx, row); err != nil {
		return MatchResult{}, fmt.Errorf("store match %d: %w", matchID, err)
	}

	// Team notifications are isolated: one failing must not block the other.
	s.notifyTeam(ctx, home, away.Name, ext, channel.ID)
	s.notifyTeam(ctx, away, home.Name, ext, channel.ID)

	return MatchResult{Outcome: MatchCreated, Match: row}, nil
}

func (s *MatchService) generateBye(ctx context.Context, ext ExternalMatch, home team.Team) (MatchResult, error) {
	notice := template.Message{Content: byeNotice}.Substitute(map[string]string{
		"{TEAM_NAME}":  home.Name,
		"{ROUND_NAME}": roundLabel(ext),
	})
	if home.ChannelID != 0 {
		if _, err := s.adapter.SendMessage(ctx, home.ChannelID, chat.Outgoing{Content: notice.RenderText()}); err != nil {
			s.logger.WarnContext(ctx, "bye notice failed", "match_id", ext.ID, "team", home.Name, "error", err)
		}
	}

	row := match.Match{
		MatchID:    ext.ID,
		DivisionID: home.DivisionID,
		HomeTeamID: home.TeamID,
		ChannelID:  0,
		Archived:   true,
		LeagueID:   ext.LeagueID,
	}
	if err := s.matches.Insert(ctx, row); err != nil {
		return MatchResult{}, fmt.Errorf("store bye match %d: %w", ext.ID, err)
	}
	return MatchResult{Outcome: MatchBye, Match: row}, nil
}

func (s *MatchService) notifyTeam(ctx context.Context, target team.Team, opponent string, ext ExternalMatch, channelID int64) {
	if target.ChannelID == 0 {
		return
	}
	notice := template.Message{Content: organizeNotice}.Substitute(map[string]string{
		"{ROUND_NAME}":   roundLabel(ext),
		"{OPPONENT}":     opponent,
		"{CHANNEL_LINK}": channelLink(channelID),
	})
	if _, err := s.adapter.SendMessage(ctx, target.ChannelID, chat.Outgoing{Content: notice.RenderText()}); err != nil {
		s.logger.WarnContext(ctx, "team notification failed",
			"match_id", ext.ID, "team", target.Name, "channel_id", target.ChannelID, "error", err)
	}
}

// GenerateRound pulls every fixture for a league and generates the ones not
// yet present locally, skipping fixtures whose result is already confirmed
// upstream. roundNumber zero means all rounds. Failures are isolated per
// fixture.
func (s *MatchService) GenerateRound(ctx context.Context, leagueID int64, roundNumber int, extra []chat.Overwrite, progress Progress) (RoundResult, error) {
	ctx, span := startUsecaseSpan(ctx, "match.GenerateRound")
	defer span.End()

	if leagueID <= 0 {
		return RoundResult{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if progress == nil {
		progress = NopProgress{}
	}

	ext, err := s.client.GetLeague(ctx, leagueID)
	if err != nil {
		return RoundResult{}, fmt.Errorf("generate round for league %d: %w", leagueID, err)
	}

	pending := make([]ExternalMatchSummary, 0, len(ext.Matches))
	var result RoundResult
	for _, summary := range ext.Matches {
		if strings.EqualFold(summary.Status, "confirmed") {
			result.Skipped++
			continue
		}
		if roundNumber > 0 && summary.RoundNumber != roundNumber {
			result.Skipped++
			continue
		}
		if _, ok, err := s.matches.GetByID(ctx, summary.ID); err != nil {
			return result, fmt.Errorf("check match %d: %w", summary.ID, err)
		} else if ok {
			result.Skipped++
			continue
		}
		pending = append(pending, summary)
	}

	for i, summary := range pending {
		generated, err := s.GenerateMatch(ctx, summary.ID, extra)
		if err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "match generation failed, continuing batch",
				"match_id", summary.ID, "league_id", leagueID, "error", err)
		} else if generated.Outcome == MatchBye {
			result.Byes++
		} else if generated.Outcome == MatchCreated {
			result.Generated++
		} else {
			result.Skipped++
		}
		progress.Update(ctx, fmt.Sprintf("Generating matches: %d/%d processed (%d failed)", i+1, len(pending), result.Failed))
	}

	return result, nil
}

func roundLabel(ext ExternalMatch) string {
	if strings.TrimSpace(ext.RoundName) != "" {
		return ext.RoundName
	}
	if ext.RoundNumber > 0 {
		return fmt.Sprintf("Round %d", ext.RoundNumber)
	}
	return "match"
}
