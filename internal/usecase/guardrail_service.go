package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

// GuardrailService restores tracked channels that were deleted out of band.
// The replacement is built from the overwrite snapshot carried on the
// deletion event, not from current keyword policy, so manual permission
// edits made before the deletion survive the repair.
type GuardrailService struct {
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	client    LeagueClient
	adapter   chat.Adapter
	logger    *logging.Logger
}

func NewGuardrailService(
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	matches match.Repository,
	client LeagueClient,
	adapter chat.Adapter,
	logger *logging.Logger,
) *GuardrailService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GuardrailService{
		leagues:   leagues,
		divisions: divisions,
		teams:     teams,
		matches:   matches,
		client:    client,
		adapter:   adapter,
		logger:    logger,
	}
}

// OnChannelDeleted repairs a deleted channel if it belongs to a tracked team
// or match: one replacement channel, the stored pointer moved to the new id,
// the original template reposted with an apology. Untracked channels are
// ignored.
func (s *GuardrailService) OnChannelDeleted(ctx context.Context, event chat.ChannelDeletedEvent) error {
	ctx, span := startUsecaseSpan(ctx, "guardrail.OnChannelDeleted")
	defer span.End()

	if t, ok, err := s.teams.GetByChannelID(ctx, event.Channel.ID); err != nil {
		return fmt.Errorf("lookup team by channel %d: %w", event.Channel.ID, err)
	} else if ok {
		return s.repairTeamChannel(ctx, event, t)
	}

	if m, ok, err := s.matches.GetByChannelID(ctx, event.Channel.ID); err != nil {
		return fmt.Errorf("lookup match by channel %d: %w", event.Channel.ID, err)
	} else if ok {
		return s.repairMatchChannel(ctx, event, m)
	}

	return nil
}

func (s *GuardrailService) repairTeamChannel(ctx context.Context, event chat.ChannelDeletedEvent, t team.Team) error {
	channel, err := s.recreate(ctx, event.Channel)
	if err != nil {
		return fmt.Errorf("restore channel for team %q: %w", t.Name, err)
	}

	leagueName, shortCode := "", ""
	if lg, ok, err := s.leagues.GetByID(ctx, t.LeagueID); err == nil && ok {
		leagueName, shortCode = lg.Name, lg.ShortCode
	}
	label := ""
	if div, ok, err := s.divisions.GetByID(ctx, t.DivisionID); err == nil && ok {
		label = div.Label
	}

	welcome := teamWelcomeTemplate.Substitute(map[string]string{
		"{TEAM_NAME}":        t.Name,
		"{TEAM_ID}":          strconv.FormatInt(t.TeamID, 10),
		"{DIVISION}":         label,
		"{LEAGUE_NAME}":      leagueName,
		"{LEAGUE_SHORTCODE}": shortCode,
		"{CHANNEL_LINK}":     channelLink(channel.ID),
	})
	s.repost(ctx, channel.ID, welcome.RenderText())

	if err := s.teams.UpdateChannel(ctx, t.EnrollmentID, channel.ID); err != nil {
		return fmt.Errorf("move team %q to channel %d: %w", t.Name, channel.ID, err)
	}
	s.logger.InfoContext(ctx, "team channel restored",
		"team", t.Name, "old_channel_id", event.Channel.ID, "new_channel_id", channel.ID)
	return nil
}

func (s *GuardrailService) repairMatchChannel(ctx context.Context, event chat.ChannelDeletedEvent, m match.Match) error {
	channel, err := s.recreate(ctx, event.Channel)
	if err != nil {
		return fmt.Errorf("restore channel for match %d: %w", m.MatchID, err)
	}

	home, _, _ := s.teams.GetByTeamAndLeague(ctx, m.HomeTeamID, m.LeagueID)
	away, _, _ := s.teams.GetByTeamAndLeague(ctx, m.AwayTeamID, m.LeagueID)
	leagueName := ""
	if lg, ok, err := s.leagues.GetByID(ctx, m.LeagueID); err == nil && ok {
		leagueName = lg.Name
	}
	round := "match"
	if ext, err := s.client.GetMatch(ctx, m.MatchID); err == nil {
		round = roundLabel(ext)
	}

	announcement := matchTemplate.Substitute(map[string]string{
		"{HOME_TEAM}":   home.Name,
		"{AWAY_TEAM}":   away.Name,
		"{ROUND_NAME}":  round,
		"{MATCH_ID}":    strconv.FormatInt(m.MatchID, 10),
		"{LEAGUE_NAME}": leagueName,
	})
	s.repost(ctx, channel.ID, announcement.RenderText())

	if err := s.matches.UpdateChannel(ctx, m.MatchID, channel.ID); err != nil {
		return fmt.Errorf("move match %d to channel %d: %w", m.MatchID, channel.ID, err)
	}

	// Both sides learn the new location; neither failure blocks the other.
	s.notifyRestored(ctx, home, channel.ID)
	s.notifyRestored(ctx, away, channel.ID)

	s.logger.InfoContext(ctx, "match channel restored",
		"match_id", m.MatchID, "old_channel_id", event.Channel.ID, "new_channel_id", channel.ID)
	return nil
}

func (s *GuardrailService) recreate(ctx context.Context, old chat.Channel) (chat.Channel, error) {
	return s.adapter.CreateChannel(ctx, old.Name, old.ContainerID, old.Overwrites)
}

func (s *GuardrailService) repost(ctx context.Context, channelID int64, body string) {
	if _, err := s.adapter.SendMessage(ctx, channelID, chat.Outgoing{Content: body}); err != nil {
		s.logger.WarnContext(ctx, "repost after restore failed", "channel_id", channelID, "error", err)
	}
	if _, err := s.adapter.SendMessage(ctx, channelID, chat.Outgoing{Content: apologyNotice}); err != nil {
		s.logger.WarnContext(ctx, "apology after restore failed", "channel_id", channelID, "error", err)
	}
}

func (s *GuardrailService) notifyRestored(ctx context.Context, t team.Team, channelID int64) {
	if t.ChannelID == 0 || t.ChannelID == channelID {
		return
	}
	body := fmt.Sprintf("Your match channel was restored: %s", channelLink(channelID))
	if _, err := s.adapter.SendMessage(ctx, t.ChannelID, chat.Outgoing{Content: body}); err != nil {
		s.logger.WarnContext(ctx, "restore notice failed",
			"team", t.Name, "channel_id", t.ChannelID, "error", err)
	}
}
