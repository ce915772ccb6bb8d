package postgres

import "time"

type syncedUserTableModel struct {
	CitadelUserID  int64     `db:"citadel_user_id"`
	PlatformUserID int64     `db:"platform_user_id"`
	SteamID        int64     `db:"steam_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
