package usecase_test

import (
	"context"
	"testing"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/platform/confirm"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func newArchiveService(e *env, confirms confirm.Store) *usecase.ArchiveService {
	return usecase.NewArchiveService(
		e.leagues, e.divisions, e.teams, e.matches, e.workspace,
		confirms, 0, 0, logging.NewNop(),
	)
}

func TestEndMatchDistinctNoOpOutcomes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	_, home := e.seedLeague(ctx, 42)

	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2001, HomeTeamID: home.TeamID, LeagueID: 42, ChannelID: 0, Archived: true,
	})
	archivedChannel, _ := e.workspace.CreateChannel(ctx, "old-match", 0, nil)
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2002, HomeTeamID: home.TeamID, LeagueID: 42,
		ChannelID: archivedChannel.ID, Archived: true,
	})

	svc := newArchiveService(e, confirm.NewMemoryStore())

	cases := []struct {
		name    string
		matchID int64
		want    usecase.EndMatchOutcome
	}{
		{"unknown match", 9999, usecase.EndMatchUnknown},
		{"bye match", 2001, usecase.EndMatchBye},
		{"already archived", 2002, usecase.EndMatchAlreadyArchived},
	}
	for _, tc := range cases {
		result, err := svc.EndMatch(ctx, tc.matchID)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if result.Outcome != tc.want {
			t.Fatalf("%s: got outcome %q, want %q", tc.name, result.Outcome, tc.want)
		}
	}
}

func TestEndMatchRewritesOverwritesReadOnlyAndArchives(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	div, home := e.seedLeague(ctx, 42)
	away := e.seedTeam(ctx, div, 502, 62, "Bravo")

	channel, _ := e.workspace.CreateChannel(ctx, "alpha-vs-bravo", div.ContainerID, []chat.Overwrite{
		{Principal: chat.EveryonePrincipal},
		{Principal: home.GroupID, Read: true, Send: true},
		{Principal: away.GroupID, Read: true, Send: true},
	})
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2001, HomeTeamID: home.TeamID, AwayTeamID: away.TeamID,
		LeagueID: 42, DivisionID: div.ID, ChannelID: channel.ID,
	})

	svc := newArchiveService(e, confirm.NewMemoryStore())
	result, err := svc.EndMatch(ctx, 2001)
	if err != nil {
		t.Fatalf("EndMatch: %v", err)
	}
	if result.Outcome != usecase.EndMatchArchived || result.ChannelMissing {
		t.Fatalf("got %+v, want clean archived outcome", result)
	}

	row, _, _ := e.matches.GetByID(ctx, 2001)
	if !row.Archived {
		t.Fatal("match row was not archived")
	}

	updated, _, _ := e.workspace.Channel(ctx, channel.ID)
	for _, ow := range updated.Overwrites {
		if ow.Principal == chat.EveryonePrincipal {
			continue
		}
		if !ow.Read || ow.Send {
			t.Fatalf("principal %d not read-only: %+v", ow.Principal, ow)
		}
	}

	msgs := e.workspace.ChannelMessages(channel.ID)
	if len(msgs) != 1 {
		t.Fatalf("got %d closing notices, want 1", len(msgs))
	}

	// A second invocation is a typed no-op.
	again, err := svc.EndMatch(ctx, 2001)
	if err != nil || again.Outcome != usecase.EndMatchAlreadyArchived {
		t.Fatalf("repeat end: got (%+v, %v), want already archived", again, err)
	}
}

func TestEndMatchArchivesWhenChannelVanished(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	_, home := e.seedLeague(ctx, 42)

	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2001, HomeTeamID: home.TeamID, LeagueID: 42, ChannelID: 777777,
	})

	svc := newArchiveService(e, confirm.NewMemoryStore())
	result, err := svc.EndMatch(ctx, 2001)
	if err != nil {
		t.Fatalf("EndMatch: %v", err)
	}
	if result.Outcome != usecase.EndMatchArchived || !result.ChannelMissing {
		t.Fatalf("got %+v, want archived with missing channel", result)
	}
	row, _, _ := e.matches.GetByID(ctx, 2001)
	if !row.Archived {
		t.Fatal("row must be archived even without a channel")
	}
}

func TestEndTournamentRequiresRepeatedConfirmation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	e.seedLeague(ctx, 42)

	svc := newArchiveService(e, confirm.NewMemoryStore())

	first, err := svc.EndTournament(ctx, 42, 10, nil)
	if err != nil {
		t.Fatalf("first invocation: %v", err)
	}
	if first.Confirmed {
		t.Fatal("first invocation must only arm the token")
	}
	if first.ExpiresAt.IsZero() {
		t.Fatal("armed token has no expiry")
	}
	if n, _ := e.teams.Count(ctx); n != 1 {
		t.Fatal("first invocation must not delete anything")
	}

	second, err := svc.EndTournament(ctx, 42, 10, nil)
	if err != nil {
		t.Fatalf("second invocation: %v", err)
	}
	if !second.Confirmed {
		t.Fatal("second invocation inside the window must proceed")
	}
}

func TestEndTournamentTokenIsPerOperator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	e.seedLeague(ctx, 42)

	svc := newArchiveService(e, confirm.NewMemoryStore())

	if first, _ := svc.EndTournament(ctx, 42, 10, nil); first.Confirmed {
		t.Fatal("operator 10 must arm first")
	}
	// A different operator does not ride operator 10's token.
	if other, _ := svc.EndTournament(ctx, 42, 11, nil); other.Confirmed {
		t.Fatal("operator 11 must arm their own token")
	}
}

func TestEndTournamentDeletesResourcesAndPurgesRows(t *testing.T) {
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
	// Byes have no channel and must not break teardown.
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2002, HomeTeamID: home.TeamID, LeagueID: 42, ChannelID: 0, Archived: true,
	})

	svc := newArchiveService(e, confirm.NewMemoryStore())
	if _, err := svc.EndTournament(ctx, 42, 10, nil); err != nil {
		t.Fatalf("arming: %v", err)
	}
	result, err := svc.EndTournament(ctx, 42, 10, nil)
	if err != nil {
		t.Fatalf("teardown: %v", err)
	}

	// One match channel plus two team channels.
	if result.ChannelsDeleted != 3 {
		t.Fatalf("got %d channels deleted, want 3", result.ChannelsDeleted)
	}
	if result.ContainersDeleted != 1 {
		t.Fatalf("got %d containers deleted, want 1", result.ContainersDeleted)
	}
	// One division group plus two team groups.
	if result.GroupsDeleted != 3 {
		t.Fatalf("got %d groups deleted, want 3", result.GroupsDeleted)
	}

	if got := len(e.workspace.Channels()); got != 0 {
		t.Fatalf("%d channels survived teardown", got)
	}
	if n, _ := e.matches.Count(ctx); n != 0 {
		t.Fatalf("%d match rows survived teardown", n)
	}
	if n, _ := e.teams.Count(ctx); n != 0 {
		t.Fatalf("%d team rows survived teardown", n)
	}
	if n, _ := e.divisions.Count(ctx); n != 0 {
		t.Fatalf("%d division rows survived teardown", n)
	}
	if _, ok, _ := e.leagues.GetByID(ctx, 42); ok {
		t.Fatal("league row survived teardown")
	}
}

func TestEndTournamentIsolatesPerResourceFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	div, home := e.seedLeague(ctx, 42)
	e.seedTeam(ctx, div, 502, 62, "Bravo")

	// Home's channel vanished out of band; its deletion fails but the rest
	// of the teardown proceeds.
	_ = e.workspace.DeleteChannel(ctx, home.ChannelID)
	before := len(e.workspace.DeletedChannelIDs())

	svc := newArchiveService(e, confirm.NewMemoryStore())
	_, _ = svc.EndTournament(ctx, 42, 10, nil)
	result, err := svc.EndTournament(ctx, 42, 10, nil)
	if err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if result.ChannelsDeleted != 1 {
		t.Fatalf("got %d channels deleted, want 1", result.ChannelsDeleted)
	}
	if got := len(e.workspace.DeletedChannelIDs()); got != before+1 {
		t.Fatalf("unexpected deletion count %d", got)
	}
	if n, _ := e.teams.Count(ctx); n != 0 {
		t.Fatal("rows must still be purged after a channel failure")
	}
}
