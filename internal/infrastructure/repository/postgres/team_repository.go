package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Insert(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertInto("teams").
		Columns("enrollment_id", "team_id", "league_id", "group_id", "channel_id", "division_id", "name").
		Values(item.EnrollmentID, item.TeamID, item.LeagueID, item.GroupID, item.ChannelID, item.DivisionID, item.Name).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByTeamAndLeague(ctx context.Context, teamID, leagueID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("league_id", leagueID),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by team and league query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by team and league: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) GetByChannelID(ctx context.Context, channelID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("channel_id", channelID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by channel query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by channel: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) ListByTeamID(ctx context.Context, teamID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("enrollment_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by team id query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by team id: %w", err)
	}
	return mapTeamRows(rows), nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("enrollment_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}
	return mapTeamRows(rows), nil
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("division_id", divisionID)).
		OrderBy("enrollment_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by division query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by division: %w", err)
	}
	return mapTeamRows(rows), nil
}

func (r *TeamRepository) UpdateChannel(ctx context.Context, enrollmentID, channelID int64) error {
	query, args, err := qb.Update("teams").
		Set("channel_id", channelID).
		Where(qb.Eq("enrollment_id", enrollmentID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team channel query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team channel: %w", err)
	}
	return nil
}

func (r *TeamRepository) DeleteByLeague(ctx context.Context, leagueID int64) error {
	query, args, err := qb.DeleteFrom("teams").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete teams query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete teams: %w", err)
	}
	return nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}

func mapTeamRows(rows []teamTableModel) []team.Team {
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		EnrollmentID: row.EnrollmentID,
		TeamID:       row.TeamID,
		LeagueID:     row.LeagueID,
		GroupID:      row.GroupID,
		ChannelID:    row.ChannelID,
		DivisionID:   row.DivisionID,
		Name:         row.Name,
	}
}
