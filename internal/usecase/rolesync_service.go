package usecase

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

type SyncResult struct {
	// Linked is false when the platform account has no league-site identity;
	// the caller should instruct the member to link and nothing is stored.
	Linked       bool
	Granted      int
	TeamsMatched int
}

// AssignReport accumulates the two problem classes bulk assignment reports
// instead of failing on: captains with no identity link, and linked captains
// not present in the workspace.
type AssignReport struct {
	Granted  int
	Unlinked []string
	Missing  []string
}

type RoleSyncService struct {
	synced             synceduser.Repository
	teams              team.Repository
	divisions          division.Repository
	client             LeagueClient
	adapter            chat.Adapter
	groups             GroupTable
	privilegedKeywords []string
	logger             *logging.Logger
}

func NewRoleSyncService(
	synced synceduser.Repository,
	teams team.Repository,
	divisions division.Repository,
	client LeagueClient,
	adapter chat.Adapter,
	groups GroupTable,
	privilegedKeywords []string,
	logger *logging.Logger,
) *RoleSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoleSyncService{
		synced:             synced,
		teams:              teams,
		divisions:          divisions,
		client:             client,
		adapter:            adapter,
		groups:             groups,
		privilegedKeywords: privilegedKeywords,
		logger:             logger,
	}
}

// Sync links the invoker's platform account to its league-site identity and
// grants permission groups for every tracked enrollment of the teams that
// identity plays on. An unlinked account is reported, not stored.
func (s *RoleSyncService) Sync(ctx context.Context, platformUserID int64) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "rolesync.Sync")
	defer span.End()

	if platformUserID <= 0 {
		return SyncResult{}, fmt.Errorf("%w: platform user id must be greater than zero", ErrInvalidInput)
	}

	user, found, err := s.client.GetUserByPlatformID(ctx, platformUserID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sync platform user %d: %w", platformUserID, err)
	}
	if !found {
		return SyncResult{Linked: false}, nil
	}

	record := synceduser.SyncedUser{
		CitadelUserID:  user.ID,
		PlatformUserID: platformUserID,
		SteamID:        user.SteamID,
	}
	if err := record.Validate(); err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.synced.Upsert(ctx, record); err != nil {
		return SyncResult{}, fmt.Errorf("store synced user %d: %w", platformUserID, err)
	}

	result := SyncResult{Linked: true}
	for _, extTeam := range user.Teams {
		enrollments, err := s.teams.ListByTeamID(ctx, extTeam.ID)
		if err != nil {
			return result, fmt.Errorf("list enrollments for team %d: %w", extTeam.ID, err)
		}
		for _, enrollment := range enrollments {
			result.TeamsMatched++
			granted, err := s.grantEnrollmentGroups(ctx, platformUserID, enrollment)
			if err != nil {
				s.logger.WarnContext(ctx, "role grant failed, continuing",
					"platform_user_id", platformUserID, "team", enrollment.Name, "error", err)
				continue
			}
			result.Granted += granted
		}
	}
	return result, nil
}

// ForceSync runs the same pipeline for another member. The operator must
// hold at least one privileged group.
func (s *RoleSyncService) ForceSync(ctx context.Context, operatorID, targetPlatformID int64) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "rolesync.ForceSync")
	defer span.End()

	privileged, err := s.operatorIsPrivileged(ctx, operatorID)
	if err != nil {
		return SyncResult{}, err
	}
	if !privileged {
		return SyncResult{}, fmt.Errorf("%w: operator %d may not force a sync", ErrUnauthorized, operatorID)
	}
	return s.Sync(ctx, targetPlatformID)
}

// AssignRoles reconciles captain permissions for every team tracked in a
// league: one roster fetch per team, captains cross-referenced against the
// identity-link table, grants membership-checked so reruns are idempotent.
func (s *RoleSyncService) AssignRoles(ctx context.Context, leagueID int64, progress Progress) (AssignReport, error) {
	ctx, span := startUsecaseSpan(ctx, "rolesync.AssignRoles")
	defer span.End()

	if leagueID <= 0 {
		return AssignReport{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if progress == nil {
		progress = NopProgress{}
	}

	teams, err := s.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return AssignReport{}, fmt.Errorf("list teams for league %d: %w", leagueID, err)
	}

	var report AssignReport
	for i, enrollment := range teams {
		ext, err := s.client.GetTeam(ctx, enrollment.TeamID)
		if err != nil {
			s.logger.ErrorContext(ctx, "roster fetch failed, continuing",
				"team_id", enrollment.TeamID, "league_id", leagueID, "error", err)
			continue
		}

		for _, player := range ext.Players {
			if !player.IsCaptain {
				continue
			}
			linked, ok, err := s.synced.GetByCitadelID(ctx, player.ID)
			if err != nil {
				return report, fmt.Errorf("lookup synced user %d: %w", player.ID, err)
			}
			if !ok {
				report.Unlinked = append(report.Unlinked, player.Name)
				continue
			}
			granted, err := s.grantEnrollmentGroups(ctx, linked.PlatformUserID, enrollment)
			if err != nil {
				if crerr.Is(err, ErrResourceMissing) {
					report.Missing = append(report.Missing, player.Name)
					continue
				}
				s.logger.WarnContext(ctx, "role grant failed, continuing",
					"player", player.Name, "team", enrollment.Name, "error", err)
				continue
			}
			report.Granted += granted
		}
		progress.Update(ctx, fmt.Sprintf("Assigning roles: %d/%d teams processed", i+1, len(teams)))
	}
	return report, nil
}

// grantEnrollmentGroups grants the team and division groups to a member if
// not already held. Returns how many grants were actually made.
func (s *RoleSyncService) grantEnrollmentGroups(ctx context.Context, platformUserID int64, enrollment team.Team) (int, error) {
	if _, ok, err := s.adapter.Member(ctx, platformUserID); err != nil {
		return 0, fmt.Errorf("resolve member %d: %w", platformUserID, err)
	} else if !ok {
		return 0, fmt.Errorf("%w: member %d is not in the workspace", ErrResourceMissing, platformUserID)
	}

	groupIDs := []int64{enrollment.GroupID}
	if div, ok, err := s.divisions.GetByID(ctx, enrollment.DivisionID); err != nil {
		return 0, fmt.Errorf("resolve division %d: %w", enrollment.DivisionID, err)
	} else if ok {
		groupIDs = append(groupIDs, div.GroupID)
	}

	granted := 0
	for _, groupID := range groupIDs {
		if groupID == 0 {
			continue
		}
		has, err := s.adapter.MemberHasGroup(ctx, platformUserID, groupID)
		if err != nil {
			return granted, fmt.Errorf("check membership of group %d: %w", groupID, err)
		}
		if has {
			continue
		}
		if err := s.adapter.AddMemberToGroup(ctx, platformUserID, groupID); err != nil {
			return granted, fmt.Errorf("grant group %d: %w", groupID, err)
		}
		granted++
	}
	return granted, nil
}

func (s *RoleSyncService) operatorIsPrivileged(ctx context.Context, operatorID int64) (bool, error) {
	member, ok, err := s.adapter.Member(ctx, operatorID)
	if err != nil {
		return false, fmt.Errorf("resolve operator %d: %w", operatorID, err)
	}
	if !ok {
		return false, nil
	}

	privileged := s.groups.Match(s.privilegedKeywords)
	for _, held := range member.GroupIDs {
		for _, groupID := range privileged {
			if held == groupID {
				return true, nil
			}
		}
	}
	return false, nil
}
