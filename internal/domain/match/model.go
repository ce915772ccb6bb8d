package match

import "fmt"

// Match is a generated fixture. The external match id keys the row and its
// presence is the idempotency signal for generation. A bye has AwayTeamID
// and ChannelID of zero and is archived in the same operation that inserts
// it. Archived only ever moves false to true.
type Match struct {
	MatchID    int64
	DivisionID int64
	HomeTeamID int64
	AwayTeamID int64
	ChannelID  int64
	Archived   bool
	LeagueID   int64
}

// Bye reports whether the match has no opposing side.
func (m Match) Bye() bool {
	return m.ChannelID == 0
}

func (m Match) Validate() error {
	if m.MatchID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeamID <= 0 {
		return fmt.Errorf("match home team id is required")
	}
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league id is required")
	}

	return nil
}
