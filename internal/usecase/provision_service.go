package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/platform/template"
)

// RoleAssigner is the part of role reconciliation that provisioning triggers
// when it finishes.
type RoleAssigner interface {
	AssignRoles(ctx context.Context, leagueID int64, progress Progress) (AssignReport, error)
}

// LaunchpadRefresher regenerates the status view after provisioning.
type LaunchpadRefresher interface {
	Regenerate(ctx context.Context) error
}

type ProvisionService struct {
	leagues   league.Repository
	divisions division.Repository
	teams     team.Repository
	client    LeagueClient
	adapter   chat.Adapter
	groups    GroupTable
	// staffKeywords selects which configured groups get access to every
	// provisioned container and channel.
	staffKeywords []string
	roleSync      RoleAssigner
	launchpad     LaunchpadRefresher
	logger        *logging.Logger
}

func NewProvisionService(
	leagues league.Repository,
	divisions division.Repository,
	teams team.Repository,
	client LeagueClient,
	adapter chat.Adapter,
	groups GroupTable,
	staffKeywords []string,
	roleSync RoleAssigner,
	launchpad LaunchpadRefresher,
	logger *logging.Logger,
) *ProvisionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProvisionService{
		leagues:       leagues,
		divisions:     divisions,
		teams:         teams,
		client:        client,
		adapter:       adapter,
		groups:        groups,
		staffKeywords: staffKeywords,
		roleSync:      roleSync,
		launchpad:     launchpad,
		logger:        logger,
	}
}

type ProvisionInput struct {
	LeagueID  int64
	ShortCode string
	// ExtraOverwrites are per-invocation channel grants added on top of the
	// staff allowlist.
	ExtraOverwrites []chat.Overwrite
	// Share makes provisioned channels readable by everyone instead of
	// hidden behind the default-deny baseline.
	Share    bool
	Progress Progress
}

type ProvisionResult struct {
	LeagueName string
	Divisions  int
	Teams      int
	Skipped    int
}

// ProvisionLeague pulls the league roster once, then creates one container
// and permission group per division label and one group, channel and welcome
// post per registration. Registrations already tracked locally are skipped.
// Divisions are created without an existence check.
func (s *ProvisionService) ProvisionLeague(ctx context.Context, in ProvisionInput) (ProvisionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "provision.ProvisionLeague")
	defer span.End()

	if in.LeagueID <= 0 {
		return ProvisionResult{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if strings.TrimSpace(in.ShortCode) == "" {
		return ProvisionResult{}, fmt.Errorf("%w: short code is required", ErrInvalidInput)
	}
	progress := in.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	extLeague, err := s.client.GetLeague(ctx, in.LeagueID)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("provision league %d: %w", in.LeagueID, err)
	}

	record := league.League{ID: extLeague.ID, Name: extLeague.Name, ShortCode: in.ShortCode}
	if err := record.Validate(); err != nil {
		return ProvisionResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagues.Insert(ctx, record); err != nil {
		return ProvisionResult{}, fmt.Errorf("store league %d: %w", in.LeagueID, err)
	}

	baseline := chat.Overwrite{Principal: chat.EveryonePrincipal, Read: in.Share, Send: false}
	staffGroupIDs := s.groups.Match(s.staffKeywords)

	labels, rostersByLabel := groupRostersByDivision(extLeague.Rosters)

	result := ProvisionResult{LeagueName: extLeague.Name}
	total := len(extLeague.Rosters)
	done := 0

	for _, label := range labels {
		divOverwrites := buildOverwrites(baseline, staffGroupIDs, nil, in.ExtraOverwrites)

		containerName := fmt.Sprintf("%s %s", in.ShortCode, label)
		container, err := s.adapter.CreateContainer(ctx, containerName, divOverwrites)
		if err != nil {
			return result, fmt.Errorf("create container for division %q: %w", label, err)
		}
		group, err := s.adapter.CreateGroup(ctx, containerName, true)
		if err != nil {
			return result, fmt.Errorf("create group for division %q: %w", label, err)
		}

		divisionID, err := s.divisions.Insert(ctx, division.Division{
			LeagueID:    in.LeagueID,
			Label:       label,
			GroupID:     group.ID,
			ContainerID: container.ID,
		})
		if err != nil {
			return result, fmt.Errorf("store division %q: %w", label, err)
		}
		result.Divisions++

		for _, roster := range rostersByLabel[label] {
			done++
			if _, exists, err := s.teams.GetByTeamAndLeague(ctx, roster.TeamID, in.LeagueID); err != nil {
				return result, fmt.Errorf("check team %d: %w", roster.TeamID, err)
			} else if exists {
				s.logger.DebugContext(ctx, "team already provisioned, skipping",
					"team_id", roster.TeamID, "league_id", in.LeagueID)
				result.Skipped++
				continue
			}

			if err := s.provisionTeam(ctx, in, extLeague.Name, label, divisionID, group.ID, container.ID, baseline, staffGroupIDs, roster); err != nil {
				return result, err
			}
			result.Teams++
			progress.Update(ctx, fmt.Sprintf("Provisioning %s: %d/%d teams done (%s)", extLeague.Name, done, total, roster.Name))
		}
	}

	if s.roleSync != nil {
		if _, err := s.roleSync.AssignRoles(ctx, in.LeagueID, progress); err != nil {
			s.logger.WarnContext(ctx, "post-provision role assignment failed", "league_id", in.LeagueID, "error", err)
		}
	}
	if s.launchpad != nil {
		if err := s.launchpad.Regenerate(ctx); err != nil {
			s.logger.WarnContext(ctx, "post-provision launchpad refresh failed", "league_id", in.LeagueID, "error", err)
		}
	}

	return result, nil
}

func (s *ProvisionService) provisionTeam(
	ctx context.Context,
	in ProvisionInput,
	leagueName, label string,
	divisionID, divisionGroupID, containerID int64,
	baseline chat.Overwrite,
	staffGroupIDs []int64,
	roster ExternalRoster,
) error {
	displayName := s.truncateName(ctx, roster.Name, TeamNameRuneLimit, "team name")

	teamGroup, err := s.adapter.CreateGroup(ctx, fmt.Sprintf("%s %s", in.ShortCode, displayName), true)
	if err != nil {
		return fmt.Errorf("create group for team %q: %w", roster.Name, err)
	}

	channelName := s.truncateName(ctx, composeChannelName(displayName), ChannelNameRuneLimit, "channel name")
	overwrites := buildOverwrites(baseline, staffGroupIDs, []int64{teamGroup.ID, divisionGroupID}, in.ExtraOverwrites)
	channel, err := s.adapter.CreateChannel(ctx, channelName, containerID, overwrites)
	if err != nil {
		return fmt.Errorf("create channel for team %q: %w", roster.Name, err)
	}

	welcome := teamWelcomeTemplate.Substitute(map[string]string{
		"{TEAM_NAME}":        roster.Name,
		"{TEAM_ID}":          strconv.FormatInt(roster.TeamID, 10),
		"{DIVISION}":         label,
		"{LEAGUE_NAME}":      leagueName,
		"{LEAGUE_SHORTCODE}": in.ShortCode,
		"{CHANNEL_LINK}":     channelLink(channel.ID),
	})
	if _, err := s.adapter.SendMessage(ctx, channel.ID, chat.Outgoing{Content: welcome.RenderText()}); err != nil {
		return fmt.Errorf("post welcome for team %q: %w", roster.Name, err)
	}

	row := team.Team{
		EnrollmentID: roster.ID,
		TeamID:       roster.TeamID,
		LeagueID:     in.LeagueID,
		GroupID:      teamGroup.ID,
		ChannelID:    channel.ID,
		DivisionID:   divisionID,
		Name:         roster.Name,
	}
	if err := row.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teams.Insert(ctx, row); err != nil {
		return fmt.Errorf("store team %q: %w", roster.Name, err)
	}
	return nil
}

func (s *ProvisionService) truncateName(ctx context.Context, name string, limit int, what string) string {
	out, truncated := template.Truncate(name, limit)
	if truncated {
		s.logger.WarnContext(ctx, "name exceeds platform limit, truncated",
			"what", what, "name", name, "limit", limit)
	}
	return out
}

// groupRostersByDivision preserves first-seen label order so provisioning is
// deterministic for a given roster payload.
func groupRostersByDivision(rosters []ExternalRoster) ([]string, map[string][]ExternalRoster) {
	labels := make([]string, 0, 8)
	byLabel := make(map[string][]ExternalRoster, 8)
	for _, roster := range rosters {
		if _, seen := byLabel[roster.DivisionLabel]; !seen {
			labels = append(labels, roster.DivisionLabel)
		}
		byLabel[roster.DivisionLabel] = append(byLabel[roster.DivisionLabel], roster)
	}
	return labels, byLabel
}

func buildOverwrites(baseline chat.Overwrite, staffGroupIDs, memberGroupIDs []int64, extra []chat.Overwrite) []chat.Overwrite {
	out := make([]chat.Overwrite, 0, 1+len(staffGroupIDs)+len(memberGroupIDs)+len(extra))
	out = append(out, baseline)
	for _, id := range staffGroupIDs {
		out = append(out, chat.Overwrite{Principal: id, Read: true, Send: true})
	}
	for _, id := range memberGroupIDs {
		out = append(out, chat.Overwrite{Principal: id, Read: true, Send: true})
	}
	out = append(out, extra...)
	return out
}

func composeChannelName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var buf strings.Builder
	lastDash := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			buf.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && buf.Len() > 0 {
				buf.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(buf.String(), "-")
}

func channelLink(channelID int64) string {
	return fmt.Sprintf("<#%d>", channelID)
}
