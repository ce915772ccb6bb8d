package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/match"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Insert(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertInto("matches").
		Columns("match_id", "division_id", "home_team_id", "away_team_id", "channel_id", "archived", "league_id").
		Values(item.MatchID, item.DivisionID, item.HomeTeamID, item.AwayTeamID, item.ChannelID, item.Archived, item.LeagueID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) GetByChannelID(ctx context.Context, channelID int64) (match.Match, bool, error) {
	if channelID == 0 {
		return match.Match{}, false, nil
	}

	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("channel_id", channelID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by channel query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by channel: %w", err)
	}
	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}
	return out, nil
}

// Archive only ever sets the flag. There is no reverse operation.
func (r *MatchRepository) Archive(ctx context.Context, matchID int64) error {
	query, args, err := qb.Update("matches").
		Set("archived", true).
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build archive match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("archive match: %w", err)
	}
	return nil
}

func (r *MatchRepository) UpdateChannel(ctx context.Context, matchID, channelID int64) error {
	query, args, err := qb.Update("matches").
		Set("channel_id", channelID).
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match channel query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match channel: %w", err)
	}
	return nil
}

func (r *MatchRepository) DeleteByLeague(ctx context.Context, leagueID int64) error {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete matches query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func mapMatchRow(row matchTableModel) match.Match {
	return match.Match{
		MatchID:    row.MatchID,
		DivisionID: row.DivisionID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		ChannelID:  row.ChannelID,
		Archived:   row.Archived,
		LeagueID:   row.LeagueID,
	}
}
