package division

import "fmt"

// Division is a competitive tier provisioned inside a league. It owns one
// container and one permission group on the chat platform.
type Division struct {
	ID          int64
	LeagueID    int64
	Label       string
	GroupID     int64
	ContainerID int64
}

func (d Division) Validate() error {
	if d.LeagueID <= 0 {
		return fmt.Errorf("division league id is required")
	}
	if d.Label == "" {
		return fmt.Errorf("division label is required")
	}

	return nil
}
