package league

import (
	"fmt"
	"time"
)

// League is a tournament season tracked by the workspace. The row is written
// once during provisioning and removed at teardown.
type League struct {
	ID        int64
	Name      string
	ShortCode string
	CreatedAt time.Time
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.ShortCode == "" {
		return fmt.Errorf("league short code is required")
	}

	return nil
}
