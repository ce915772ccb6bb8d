package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/valyala/bytebufferpool"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/platform/template"
)

// divisionPriority fixes the display order of the well-known tier labels.
// Labels outside this table sort after them by creation order.
var divisionPriority = map[string]int{
	"Premier":      0,
	"High":         1,
	"Intermediate": 2,
	"Main":         3,
	"Open":         4,
}

type LaunchpadService struct {
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	adapter   chat.Adapter
	channelID int64
	logger    *logging.Logger
}

func NewLaunchpadService(
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	matches match.Repository,
	adapter chat.Adapter,
	channelID int64,
	logger *logging.Logger,
) *LaunchpadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LaunchpadService{
		leagues:   leagues,
		divisions: divisions,
		teams:     teams,
		matches:   matches,
		adapter:   adapter,
		channelID: channelID,
		logger:    logger,
	}
}

// RenderView builds the full navigation text for every tracked league:
// divisions in tier order, each with its team channels and match channels.
// Byes are listed with a literal marker since they never had a channel.
func (s *LaunchpadService) RenderView(ctx context.Context) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "launchpad.RenderView")
	defer span.End()

	leagues, err := s.leagues.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list leagues: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, lg := range leagues {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := s.renderLeague(ctx, buf, lg); err != nil {
			return "", err
		}
	}
	if buf.Len() == 0 {
		return "No active leagues.", nil
	}
	return buf.String(), nil
}

// Regenerate replaces the launchpad channel's content: every bot-authored
// message among the recent history is deleted, then the fresh view is posted
// in message-sized parts.
func (s *LaunchpadService) Regenerate(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "launchpad.Regenerate")
	defer span.End()

	if s.channelID == 0 {
		return nil
	}

	view, err := s.RenderView(ctx)
	if err != nil {
		return err
	}

	recent, err := s.adapter.ListRecentMessages(ctx, s.channelID, launchpadLookback)
	if err != nil {
		return fmt.Errorf("list launchpad messages: %w", err)
	}
	for _, msg := range recent {
		if !msg.BotAuthored {
			continue
		}
		if err := s.adapter.DeleteMessage(ctx, s.channelID, msg.ID); err != nil {
			s.logger.WarnContext(ctx, "launchpad purge skipped a message",
				"message_id", msg.ID, "error", err)
		}
	}

	for _, part := range template.Split(view, MessageRuneLimit) {
		if _, err := s.adapter.SendMessage(ctx, s.channelID, chat.Outgoing{Content: part}); err != nil {
			return fmt.Errorf("post launchpad part: %w", err)
		}
	}
	return nil
}

func (s *LaunchpadService) renderLeague(ctx context.Context, buf *bytebufferpool.ByteBuffer, lg league.League) error {
	fmt.Fprintf(buf, "# %s\n", lg.Name)

	divisions, err := s.divisions.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list divisions for league %d: %w", lg.ID, err)
	}
	sortDivisions(divisions)

	matches, err := s.matches.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list matches for league %d: %w", lg.ID, err)
	}
	matchesByDivision := make(map[int64][]match.Match)
	for _, m := range matches {
		matchesByDivision[m.DivisionID] = append(matchesByDivision[m.DivisionID], m)
	}

	for _, div := range divisions {
		fmt.Fprintf(buf, "\n## %s\n", div.Label)

		teams, err := s.teams.ListByDivision(ctx, div.ID)
		if err != nil {
			return fmt.Errorf("list teams for division %d: %w", div.ID, err)
		}
		for _, t := range teams {
			fmt.Fprintf(buf, "%s %s\n", t.Name, channelLink(t.ChannelID))
		}

		for i, m := range matchesByDivision[div.ID] {
			if i == 0 {
				buf.WriteString("Matches:\n")
			}
			if m.Bye() {
				fmt.Fprintf(buf, "Match %d Bye\n", m.MatchID)
				continue
			}
			fmt.Fprintf(buf, "Match %d %s\n", m.MatchID, channelLink(m.ChannelID))
		}
	}
	return nil
}

// sortDivisions orders the well-known tiers first, then everything else by
// the order divisions were created in.
func sortDivisions(divisions []division.Division) {
	sort.SliceStable(divisions, func(i, j int) bool {
		pi, iKnown := divisionPriority[divisions[i].Label]
		pj, jKnown := divisionPriority[divisions[j].Label]
		switch {
		case iKnown && jKnown:
			return pi < pj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return divisions[i].ID < divisions[j].ID
		}
	})
}
