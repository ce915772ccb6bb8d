package usecase

import (
	"context"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

// Progress receives human-readable status text during long-running
// pipelines. Implementations must never fail the pipeline.
type Progress interface {
	Update(ctx context.Context, text string)
}

// NopProgress discards updates.
type NopProgress struct{}

func (NopProgress) Update(context.Context, string) {}

// MessageProgress edits a status message in place. Once an edit fails the
// invoker-side message is considered stale and all further updates are
// dropped silently, so the pipeline keeps running.
type MessageProgress struct {
	adapter   chat.Adapter
	channelID int64
	messageID int64
	logger    *logging.Logger
	stale     bool
}

func NewMessageProgress(adapter chat.Adapter, channelID, messageID int64, logger *logging.Logger) *MessageProgress {
	if logger == nil {
		logger = logging.Default()
	}
	return &MessageProgress{
		adapter:   adapter,
		channelID: channelID,
		messageID: messageID,
		logger:    logger,
	}
}

func (p *MessageProgress) Update(ctx context.Context, text string) {
	if p.stale {
		return
	}
	if err := p.adapter.EditMessage(ctx, p.channelID, p.messageID, text); err != nil {
		p.stale = true
		p.logger.WarnContext(ctx, "progress message went stale, continuing silently",
			"channel_id", p.channelID, "message_id", p.messageID, "error", err)
	}
}
