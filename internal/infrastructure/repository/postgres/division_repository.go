package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

type DivisionRepository struct {
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

func (r *DivisionRepository) Insert(ctx context.Context, item division.Division) (int64, error) {
	query, args, err := qb.InsertInto("divisions").
		Columns("league_id", "label", "group_id", "container_id").
		Values(item.LeagueID, item.Label, item.GroupID, item.ContainerID).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert division query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert division: %w", err)
	}
	return id, nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, divisionID int64) (division.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(qb.Eq("id", divisionID)).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division by id query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division by id: %w", err)
	}
	return mapDivisionRow(row), true, nil
}

func (r *DivisionRepository) GetByLabel(ctx context.Context, leagueID int64, label string) (division.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("label", label),
		).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division by label query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division by label: %w", err)
	}
	return mapDivisionRow(row), true, nil
}

func (r *DivisionRepository) ListByLeague(ctx context.Context, leagueID int64) ([]division.Division, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select divisions query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select divisions: %w", err)
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDivisionRow(row))
	}
	return out, nil
}

func (r *DivisionRepository) DeleteByLeague(ctx context.Context, leagueID int64) error {
	query, args, err := qb.DeleteFrom("divisions").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete divisions query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete divisions: %w", err)
	}
	return nil
}

func (r *DivisionRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("divisions").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count divisions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count divisions: %w", err)
	}
	return count, nil
}

func mapDivisionRow(row divisionTableModel) division.Division {
	return division.Division{
		ID:          row.ID,
		LeagueID:    row.LeagueID,
		Label:       row.Label,
		GroupID:     row.GroupID,
		ContainerID: row.ContainerID,
	}
}
