package postgres

type teamTableModel struct {
	EnrollmentID int64  `db:"enrollment_id"`
	TeamID       int64  `db:"team_id"`
	LeagueID     int64  `db:"league_id"`
	GroupID      int64  `db:"group_id"`
	ChannelID    int64  `db:"channel_id"`
	DivisionID   int64  `db:"division_id"`
	Name         string `db:"name"`
}
