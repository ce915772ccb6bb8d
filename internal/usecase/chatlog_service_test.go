package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/platform/cache"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func newChatLogService(e *env) *usecase.ChatLogService {
	return usecase.NewChatLogService(
		e.logs, e.matches, e.teams, cache.NewStore(time.Minute), logging.NewNop(),
	)
}

func TestHandleMessageRecordsLifecycleInTrackedChannel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	_, row := e.seedLeague(ctx, 42)

	svc := newChatLogService(e)
	e.workspace.SubscribeMessages(func(ctx context.Context, ev chat.MessageEvent) {
		_ = svc.HandleMessage(ctx, ev)
	})

	posted := e.workspace.PostUserMessage(chat.Message{
		ChannelID: row.ChannelID, AuthorID: 555, AuthorName: "captain",
		Content: "scrim at 8?", Timestamp: time.Now(),
	})
	e.workspace.EditUserMessage(row.ChannelID, posted.ID, "scrim at 9?")
	e.workspace.DeleteUserMessage(row.ChannelID, posted.ID)

	entries, err := e.logs.ListByTeam(ctx, row.EnrollmentID)
	if err != nil {
		t.Fatalf("ListByTeam: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if entries[0].Kind != chatlog.KindCreate || entries[0].Content != "scrim at 8?" {
		t.Fatalf("create entry wrong: %+v", entries[0])
	}
	if entries[1].Kind != chatlog.KindEdit {
		t.Fatalf("edit entry wrong kind: %+v", entries[1])
	}
	if entries[1].Content != "scrim at 8?" || entries[1].NewContent != "scrim at 9?" {
		t.Fatalf("edit entry must carry old and new content: %+v", entries[1])
	}
	if entries[2].Kind != chatlog.KindDelete {
		t.Fatalf("delete entry wrong kind: %+v", entries[2])
	}
	for _, entry := range entries {
		if entry.TeamID != row.EnrollmentID || entry.MatchID != 0 {
			t.Fatalf("entry owner wrong: %+v", entry)
		}
	}
}

func TestHandleMessageResolvesMatchChannels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	div, home := e.seedLeague(ctx, 42)

	matchChannel, _ := e.workspace.CreateChannel(ctx, "alpha-vs-bravo", div.ContainerID, nil)
	_ = e.matches.Insert(ctx, match.Match{
		MatchID: 2001, HomeTeamID: home.TeamID, LeagueID: 42,
		DivisionID: div.ID, ChannelID: matchChannel.ID, AwayTeamID: 62,
	})

	svc := newChatLogService(e)
	err := svc.HandleMessage(ctx, chat.MessageEvent{
		Kind: chat.MessageCreated,
		Message: chat.Message{
			ID: 9, ChannelID: matchChannel.ID, AuthorID: 555,
			AuthorName: "captain", Content: "gg", Timestamp: time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	entries, _ := e.logs.ListByMatch(ctx, 2001)
	if len(entries) != 1 || entries[0].MatchID != 2001 || entries[0].TeamID != 0 {
		t.Fatalf("match entry wrong: %v", entries)
	}
}

func TestHandleMessageSkipsBotsAndUntrackedChannels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	_, row := e.seedLeague(ctx, 42)

	svc := newChatLogService(e)

	botEvent := chat.MessageEvent{
		Kind: chat.MessageCreated,
		Message: chat.Message{
			ID: 1, ChannelID: row.ChannelID, BotAuthored: true,
			Content: "welcome", Timestamp: time.Now(),
		},
	}
	if err := svc.HandleMessage(ctx, botEvent); err != nil {
		t.Fatalf("bot message: %v", err)
	}

	untracked := chat.MessageEvent{
		Kind: chat.MessageCreated,
		Message: chat.Message{
			ID: 2, ChannelID: 999999, AuthorID: 555,
			Content: "offtopic", Timestamp: time.Now(),
		},
	}
	if err := svc.HandleMessage(ctx, untracked); err != nil {
		t.Fatalf("untracked channel: %v", err)
	}

	if n, _ := e.logs.Count(ctx); n != 0 {
		t.Fatalf("got %d entries, want none", n)
	}
}
