package postgres

type matchTableModel struct {
	MatchID    int64 `db:"match_id"`
	DivisionID int64 `db:"division_id"`
	HomeTeamID int64 `db:"home_team_id"`
	AwayTeamID int64 `db:"away_team_id"`
	ChannelID  int64 `db:"channel_id"`
	Archived   bool  `db:"archived"`
	LeagueID   int64 `db:"league_id"`
}
