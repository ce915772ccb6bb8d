package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/chat/chatfake"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func TestMessageProgressEditsInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	workspace := chatfake.NewWorkspace()

	channel, _ := workspace.CreateChannel(ctx, "status", 0, nil)
	status, _ := workspace.SendMessage(ctx, channel.ID, chat.Outgoing{Content: "starting"})

	progress := usecase.NewMessageProgress(workspace, channel.ID, status.ID, logging.NewNop())
	progress.Update(ctx, "1/3 done")
	progress.Update(ctx, "2/3 done")

	msgs := workspace.ChannelMessages(channel.ID)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want the single edited status", len(msgs))
	}
	if msgs[0].Content != "2/3 done" {
		t.Fatalf("got %q, want the latest update", msgs[0].Content)
	}
}

func TestMessageProgressGoesSilentAfterFirstEditFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	workspace := chatfake.NewWorkspace()

	channel, _ := workspace.CreateChannel(ctx, "status", 0, nil)
	status, _ := workspace.SendMessage(ctx, channel.ID, chat.Outgoing{Content: "starting"})

	progress := usecase.NewMessageProgress(workspace, channel.ID, status.ID, logging.NewNop())
	progress.Update(ctx, "1/3 done")

	workspace.FailEdits(channel.ID, errors.New("message deleted by invoker"))
	progress.Update(ctx, "2/3 done")

	// The message edits fine again, but the progress stays silent.
	workspace.FailEdits(channel.ID, nil)
	progress.Update(ctx, "3/3 done")

	msgs := workspace.ChannelMessages(channel.ID)
	if msgs[0].Content != "1/3 done" {
		t.Fatalf("got %q, want updates stopped at the failure", msgs[0].Content)
	}
}
