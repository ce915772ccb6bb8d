package synceduser

import (
	"fmt"
	"time"
)

// SyncedUser links a chat-platform account to its league-site identity.
// Rows are upserted keyed by the platform user id.
type SyncedUser struct {
	CitadelUserID  int64
	PlatformUserID int64
	SteamID        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u SyncedUser) Validate() error {
	if u.CitadelUserID <= 0 {
		return fmt.Errorf("citadel user id is required")
	}
	if u.PlatformUserID <= 0 {
		return fmt.Errorf("platform user id is required")
	}

	return nil
}
