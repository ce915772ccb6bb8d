package postgres

import "time"

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	ShortCode string    `db:"short_code"`
	CreatedAt time.Time `db:"created_at"`
}
