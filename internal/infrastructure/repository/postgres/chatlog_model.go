package postgres

import "time"

type chatLogTableModel struct {
	ID          int64     `db:"id"`
	MatchID     int64     `db:"match_id"`
	TeamID      int64     `db:"team_id"`
	AuthorID    int64     `db:"author_id"`
	AuthorName  string    `db:"author_name"`
	AuthorNick  string    `db:"author_nick"`
	AvatarURL   string    `db:"avatar_url"`
	MessageID   int64     `db:"message_id"`
	Content     string    `db:"content"`
	NewContent  string    `db:"new_content"`
	Attachments string    `db:"attachments"`
	Kind        string    `db:"kind"`
	Timestamp   time.Time `db:"ts"`
}
