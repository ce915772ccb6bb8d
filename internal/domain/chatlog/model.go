package chatlog

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindCreate Kind = "CREATE"
	KindEdit   Kind = "EDIT"
	KindDelete Kind = "DELETE"
)

// Entry is one immutable audit record of a message event in a tracked match
// or team channel. Exactly one of MatchID and TeamID is set. NewContent is
// only populated for EDIT entries.
type Entry struct {
	ID          int64
	MatchID     int64
	TeamID      int64
	AuthorID    int64
	AuthorName  string
	AuthorNick  string
	AvatarURL   string
	MessageID   int64
	Content     string
	NewContent  string
	Attachments string
	Kind        Kind
	Timestamp   time.Time
}

func (e Entry) Validate() error {
	if (e.MatchID == 0) == (e.TeamID == 0) {
		return fmt.Errorf("log entry needs exactly one of match id and team id")
	}
	switch e.Kind {
	case KindCreate, KindEdit, KindDelete:
	default:
		return fmt.Errorf("invalid log entry kind %q", e.Kind)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("log entry timestamp is required")
	}

	return nil
}
