package team

import "fmt"

// Team is one team's enrollment in a league season. The same external team
// can hold enrollments across several leagues, so lookups are scoped by
// (TeamID, LeagueID). EnrollmentID is the external roster id and is unique.
type Team struct {
	EnrollmentID int64
	TeamID       int64
	LeagueID     int64
	GroupID      int64
	ChannelID    int64
	DivisionID   int64
	Name         string
}

func (t Team) Validate() error {
	if t.EnrollmentID <= 0 {
		return fmt.Errorf("team enrollment id is required")
	}
	if t.TeamID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID <= 0 {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
