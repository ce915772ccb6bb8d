package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/cache"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

// channelOwner identifies the tracked entity a channel belongs to. Exactly
// one field is set; the zero value means the channel is not tracked.
type channelOwner struct {
	MatchID int64
	TeamID  int64
}

// ChatLogService appends an audit record for every message event in a
// tracked channel. Channel ownership lookups go through a TTL cache so the
// hot path does not hit the store on every message.
type ChatLogService struct {
	logs    chatlog.Repository
	matches match.Repository
	teams   team.Repository
	owners  *cache.Store
	logger  *logging.Logger
}

func NewChatLogService(
	logs chatlog.Repository,
	matches match.Repository,
	teams team.Repository,
	owners *cache.Store,
	logger *logging.Logger,
) *ChatLogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatLogService{
		logs:    logs,
		matches: matches,
		teams:   teams,
		owners:  owners,
		logger:  logger,
	}
}

// HandleMessage records one message event. Bot traffic and untracked
// channels are skipped silently.
func (s *ChatLogService) HandleMessage(ctx context.Context, ev chat.MessageEvent) error {
	if ev.Message.BotAuthored {
		return nil
	}

	owner, err := s.resolveOwner(ctx, ev.Message.ChannelID)
	if err != nil {
		return fmt.Errorf("resolve owner of channel %d: %w", ev.Message.ChannelID, err)
	}
	if owner == (channelOwner{}) {
		return nil
	}

	entry := chatlog.Entry{
		MatchID:     owner.MatchID,
		TeamID:      owner.TeamID,
		AuthorID:    ev.Message.AuthorID,
		AuthorName:  ev.Message.AuthorName,
		AuthorNick:  ev.Message.AuthorNick,
		AvatarURL:   ev.Message.AvatarURL,
		MessageID:   ev.Message.ID,
		Content:     ev.Message.Content,
		Attachments: strings.Join(ev.Message.Attachments, ", "),
		Timestamp:   ev.Message.Timestamp,
	}

	switch ev.Kind {
	case chat.MessageCreated:
		entry.Kind = chatlog.KindCreate
	case chat.MessageEdited:
		entry.Kind = chatlog.KindEdit
		if ev.Before != nil {
			entry.Content = ev.Before.Content
		}
		entry.NewContent = ev.Message.Content
	case chat.MessageDeleted:
		entry.Kind = chatlog.KindDelete
	default:
		return fmt.Errorf("%w: unknown message event kind %q", ErrInvalidInput, ev.Kind)
	}

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("store log entry for message %d: %w", ev.Message.ID, err)
	}
	return nil
}

func (s *ChatLogService) resolveOwner(ctx context.Context, channelID int64) (channelOwner, error) {
	key := fmt.Sprintf("channel-owner:%d", channelID)
	value, err := s.owners.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		if m, ok, err := s.matches.GetByChannelID(ctx, channelID); err != nil {
			return nil, err
		} else if ok {
			return channelOwner{MatchID: m.MatchID}, nil
		}
		if t, ok, err := s.teams.GetByChannelID(ctx, channelID); err != nil {
			return nil, err
		} else if ok {
			return channelOwner{TeamID: t.EnrollmentID}, nil
		}
		return channelOwner{}, nil
	})
	if err != nil {
		return channelOwner{}, err
	}
	owner, _ := value.(channelOwner)
	return owner, nil
}
