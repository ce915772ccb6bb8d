package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Insert(ctx context.Context, item league.League) error {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := qb.InsertInto("leagues").
		Columns("id", "name", "short_code", "created_at").
		Values(item.ID, item.Name, item.ShortCode, createdAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, short_code = EXCLUDED.short_code").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}
	return mapLeagueRow(row), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID int64) error {
	query, args, err := qb.DeleteFrom("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("leagues").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count leagues query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count leagues: %w", err)
	}
	return count, nil
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:        row.ID,
		Name:      row.Name,
		ShortCode: row.ShortCode,
		CreatedAt: row.CreatedAt,
	}
}
