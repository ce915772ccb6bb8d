package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

// ChatLogRepository is append-only. The audit trail never shrinks, so the
// type deliberately has no update or delete methods.
type ChatLogRepository struct {
	db *sqlx.DB
}

func NewChatLogRepository(db *sqlx.DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

func (r *ChatLogRepository) Insert(ctx context.Context, entry chatlog.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validate log entry: %w", err)
	}

	query, args, err := qb.InsertInto("chat_logs").
		Columns("match_id", "team_id", "author_id", "author_name", "author_nick", "avatar_url",
			"message_id", "content", "new_content", "attachments", "kind", "ts").
		Values(entry.MatchID, entry.TeamID, entry.AuthorID, entry.AuthorName, entry.AuthorNick, entry.AvatarURL,
			entry.MessageID, entry.Content, entry.NewContent, entry.Attachments, string(entry.Kind), entry.Timestamp).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert log entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *ChatLogRepository) ListByMatch(ctx context.Context, matchID int64) ([]chatlog.Entry, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *ChatLogRepository) ListByTeam(ctx context.Context, teamID int64) ([]chatlog.Entry, error) {
	return r.list(ctx, qb.Eq("team_id", teamID))
}

func (r *ChatLogRepository) list(ctx context.Context, cond qb.Condition) ([]chatlog.Entry, error) {
	query, args, err := qb.Select("*").From("chat_logs").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select log entries query: %w", err)
	}

	var rows []chatLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select log entries: %w", err)
	}

	out := make([]chatlog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, chatlog.Entry{
			ID:          row.ID,
			MatchID:     row.MatchID,
			TeamID:      row.TeamID,
			AuthorID:    row.AuthorID,
			AuthorName:  row.AuthorName,
			AuthorNick:  row.AuthorNick,
			AvatarURL:   row.AvatarURL,
			MessageID:   row.MessageID,
			Content:     row.Content,
			NewContent:  row.NewContent,
			Attachments: row.Attachments,
			Kind:        chatlog.Kind(row.Kind),
			Timestamp:   row.Timestamp,
		})
	}
	return out, nil
}

func (r *ChatLogRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("chat_logs").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count log entries query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}
	return count, nil
}
