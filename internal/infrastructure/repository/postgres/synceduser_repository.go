package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
	qb "github.com/leaguehq/drawbridge/internal/platform/querybuilder"
)

type SyncedUserRepository struct {
	db *sqlx.DB
}

func NewSyncedUserRepository(db *sqlx.DB) *SyncedUserRepository {
	return &SyncedUserRepository{db: db}
}

func (r *SyncedUserRepository) Upsert(ctx context.Context, item synceduser.SyncedUser) error {
	now := time.Now().UTC()

	query, args, err := qb.InsertInto("synced_users").
		Columns("citadel_user_id", "platform_user_id", "steam_id", "created_at", "updated_at").
		Values(item.CitadelUserID, item.PlatformUserID, item.SteamID, now, now).
		Suffix("ON CONFLICT (platform_user_id) DO UPDATE SET citadel_user_id = EXCLUDED.citadel_user_id, steam_id = EXCLUDED.steam_id, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert synced user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert synced user: %w", err)
	}
	return nil
}

func (r *SyncedUserRepository) GetByPlatformID(ctx context.Context, platformUserID int64) (synceduser.SyncedUser, bool, error) {
	query, args, err := qb.Select("*").From("synced_users").
		Where(qb.Eq("platform_user_id", platformUserID)).
		ToSQL()
	if err != nil {
		return synceduser.SyncedUser{}, false, fmt.Errorf("build get synced user by platform id query: %w", err)
	}

	var row syncedUserTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synceduser.SyncedUser{}, false, nil
		}
		return synceduser.SyncedUser{}, false, fmt.Errorf("get synced user by platform id: %w", err)
	}
	return mapSyncedUserRow(row), true, nil
}

func (r *SyncedUserRepository) GetByCitadelID(ctx context.Context, citadelUserID int64) (synceduser.SyncedUser, bool, error) {
	query, args, err := qb.Select("*").From("synced_users").
		Where(qb.Eq("citadel_user_id", citadelUserID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return synceduser.SyncedUser{}, false, fmt.Errorf("build get synced user by citadel id query: %w", err)
	}

	var row syncedUserTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synceduser.SyncedUser{}, false, nil
		}
		return synceduser.SyncedUser{}, false, fmt.Errorf("get synced user by citadel id: %w", err)
	}
	return mapSyncedUserRow(row), true, nil
}

func (r *SyncedUserRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("synced_users").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count synced users query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count synced users: %w", err)
	}
	return count, nil
}

func mapSyncedUserRow(row syncedUserTableModel) synceduser.SyncedUser {
	return synceduser.SyncedUser{
		CitadelUserID:  row.CitadelUserID,
		PlatformUserID: row.PlatformUserID,
		SteamID:        row.SteamID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
