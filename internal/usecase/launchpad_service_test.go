package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func newLaunchpadService(e *env, channelID int64) *usecase.LaunchpadService {
	return usecase.NewLaunchpadService(
		e.leagues, e.divisions, e.teams, e.matches, e.workspace, channelID, logging.NewNop(),
	)
}

func TestRenderViewOrdersDivisionsByPriority(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	_ = e.leagues.Insert(ctx, league.League{ID: 42, Name: "Season Thirty", ShortCode: "S30"})

	// Inserted out of priority order, with two unknown labels mixed in.
	for _, label := range []string{"Qualifier", "Open", "Premier", "Showmatch", "Main"} {
		_, _ = e.divisions.Insert(ctx, division.Division{LeagueID: 42, Label: label})
	}

	svc := newLaunchpadService(e, 0)
	view, err := svc.RenderView(ctx)
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}

	want := []string{"Premier", "Main", "Open", "Qualifier", "Showmatch"}
	last := -1
	for _, label := range want {
		idx := strings.Index(view, "## "+label)
		if idx < 0 {
			t.Fatalf("division %q missing from view:\n%s", label, view)
		}
		if idx < last {
			t.Fatalf("division %q out of order:\n%s", label, view)
		}
		last = idx
	}
}

func TestRenderViewListsTeamsAndMarksByes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	div, home := e.seedLeague(ctx, 42)
	away := e.seedTeam(ctx, div, 502, 62, "Bravo")

	matchChannel, _ := e.workspace.CreateChannel(ctx, "alpha-vs-bravo", div.ContainerID, nil)
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2001, HomeTeamID: home.TeamID, AwayTeamID: away.TeamID,
		LeagueID: 42, DivisionID: div.ID, ChannelID: matchChannel.ID,
	})
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2002, HomeTeamID: home.TeamID, LeagueID: 42,
		DivisionID: div.ID, ChannelID: 0, Archived: true,
	})

	svc := newLaunchpadService(e, 0)
	view, err := svc.RenderView(ctx)
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}

	for _, want := range []string{
		"# Season Thirty",
		"## Open",
		fmt.Sprintf("Alpha <#%d>", home.ChannelID),
		fmt.Sprintf("Bravo <#%d>", away.ChannelID),
		fmt.Sprintf("Match 2001 <#%d>", matchChannel.ID),
		"Match 2002 Bye",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestRenderViewWithoutLeagues(t *testing.T) {
	t.Parallel()
	svc := newLaunchpadService(newEnv(), 0)
	view, err := svc.RenderView(context.Background())
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if view != "No active leagues." {
		t.Fatalf("got %q", view)
	}
}

func TestRegenerateReplacesPriorBotMessages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	e.seedLeague(ctx, 42)

	board, _ := e.workspace.CreateChannel(ctx, "launchpad", 0, nil)
	// Two stale bot posts and one user message that must survive.
	_, _ = e.workspace.SendMessage(ctx, board.ID, chat.Outgoing{Content: "stale part 1"})
	_, _ = e.workspace.SendMessage(ctx, board.ID, chat.Outgoing{Content: "stale part 2"})
	kept := e.workspace.PostUserMessage(chat.Message{ChannelID: board.ID, AuthorID: 555, Content: "hello"})

	svc := newLaunchpadService(e, board.ID)
	if err := svc.Regenerate(ctx); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	msgs := e.workspace.ChannelMessages(board.ID)
	for _, msg := range msgs {
		if msg.BotAuthored && strings.HasPrefix(msg.Content, "stale") {
			t.Fatalf("stale bot message survived: %q", msg.Content)
		}
	}
	var userSurvived, freshPosted bool
	for _, msg := range msgs {
		if msg.ID == kept.ID {
			userSurvived = true
		}
		if msg.BotAuthored && strings.Contains(msg.Content, "Season Thirty") {
			freshPosted = true
		}
	}
	if !userSurvived {
		t.Fatal("user message was purged")
	}
	if !freshPosted {
		t.Fatal("fresh view was not posted")
	}
}

func TestRegenerateSplitsLongViews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	div, _ := e.seedLeague(ctx, 42)
	// Enough teams that the rendered view exceeds one message.
	for i := int64(0); i < 120; i++ {
		e.seedTeam(ctx, div, 600+i, 70+i, fmt.Sprintf("Team-%03d-%s", i, strings.Repeat("x", 20)))
	}

	board, _ := e.workspace.CreateChannel(ctx, "launchpad", 0, nil)
	svc := newLaunchpadService(e, board.ID)
	if err := svc.Regenerate(ctx); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	msgs := e.workspace.ChannelMessages(board.ID)
	if len(msgs) < 2 {
		t.Fatalf("long view was not split, got %d messages", len(msgs))
	}
	var parts []string
	for _, msg := range msgs {
		if len([]rune(msg.Content)) > 2000 {
			t.Fatalf("part exceeds the message limit: %d runes", len([]rune(msg.Content)))
		}
		parts = append(parts, msg.Content)
	}

	view, err := svc.RenderView(ctx)
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if strings.Join(parts, "\n") != view {
		t.Fatal("joined parts do not reconstruct the rendered view")
	}
}
