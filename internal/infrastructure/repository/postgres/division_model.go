package postgres

type divisionTableModel struct {
	ID          int64  `db:"id"`
	LeagueID    int64  `db:"league_id"`
	Label       string `db:"label"`
	GroupID     int64  `db:"group_id"`
	ContainerID int64  `db:"container_id"`
}
