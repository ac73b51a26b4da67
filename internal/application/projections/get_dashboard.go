package projections

import (
	"context"
	"math"
	"sort"

	"courtside/internal/domain/account"
	"courtside/internal/domain/group"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
)

// DashboardPlayerStore defines the player store interface needed by the dashboard projection.
type DashboardPlayerStore interface {
	ListByPeriodID(ctx context.Context, periodID string) ([]player.Player, error)
}

// DashboardReportStore defines the report store interface needed by the dashboard projection.
type DashboardReportStore interface {
	ListByPeriodID(ctx context.Context, periodID string) ([]report.Report, error)
}

// DashboardGroupStore defines the group store interface needed by the dashboard projection.
type DashboardGroupStore interface {
	List(ctx context.Context) ([]group.Group, error)
}

// DashboardAccountStore defines the account store interface needed by the dashboard projection.
type DashboardAccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	PeriodID string
	CoachID  string // restricts stats to this coach's players
	IsAdmin  bool   // admins see every coach's numbers plus the coach summaries
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	PlayerStore  DashboardPlayerStore
	ReportStore  DashboardReportStore
	GroupStore   DashboardGroupStore
	AccountStore DashboardAccountStore
}

// GroupSummary counts players and submitted reports for one group.
type GroupSummary struct {
	GroupID   string
	GroupName string
	Players   int
	Reports   int
}

// CoachSummary counts assigned players and submitted reports for one coach.
type CoachSummary struct {
	CoachID   string
	CoachName string
	Players   int
	Reports   int
}

// RecommendationFlow counts players recommended to move from one group to another.
type RecommendationFlow struct {
	FromGroup string
	ToGroup   string
	Count     int
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	TotalPlayers   int
	TotalReports   int     // finalized only, drafts excluded
	CompletionRate float64 // percent of players with a finalized report, one decimal

	GroupSummaries []GroupSummary
	CoachSummaries []CoachSummary // admins only
	Flows          []RecommendationFlow
}

// QueryGetDashboard aggregates completion stats for one teaching period.
// Coaches see their own players; admins see the whole programme plus a
// per-coach breakdown.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	players, err := deps.PlayerStore.ListByPeriodID(ctx, query.PeriodID)
	if err != nil {
		return DashboardResult{}, err
	}
	reports, err := deps.ReportStore.ListByPeriodID(ctx, query.PeriodID)
	if err != nil {
		return DashboardResult{}, err
	}
	groups, err := deps.GroupStore.List(ctx)
	if err != nil {
		return DashboardResult{}, err
	}

	if !query.IsAdmin {
		players = filterPlayersByCoach(players, query.CoachID)
		reports = filterReportsByCoach(reports, query.CoachID)
	}

	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}
	groupName := make(map[string]string, len(groups))
	for _, g := range groups {
		groupName[g.ID] = g.Name
	}

	final := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if !r.IsDraft {
			final = append(final, r)
		}
	}

	result := DashboardResult{
		TotalPlayers: len(players),
		TotalReports: len(final),
	}
	if len(players) > 0 {
		rate := float64(len(final)) / float64(len(players)) * 100
		result.CompletionRate = math.Round(rate*10) / 10
	}

	result.GroupSummaries = summarizeGroups(players, final, playerByID, groupName)
	result.Flows = summarizeFlows(final, playerByID, groupName)
	if query.IsAdmin {
		result.CoachSummaries = summarizeCoaches(ctx, deps.AccountStore, players, final)
	}
	return result, nil
}

func filterPlayersByCoach(players []player.Player, coachID string) []player.Player {
	out := players[:0]
	for _, p := range players {
		if p.CoachID == coachID {
			out = append(out, p)
		}
	}
	return out
}

func filterReportsByCoach(reports []report.Report, coachID string) []report.Report {
	out := reports[:0]
	for _, r := range reports {
		if r.CoachID == coachID {
			out = append(out, r)
		}
	}
	return out
}

func summarizeGroups(players []player.Player, final []report.Report, playerByID map[string]player.Player, groupName map[string]string) []GroupSummary {
	byGroup := make(map[string]*GroupSummary)
	for _, p := range players {
		s, ok := byGroup[p.GroupID]
		if !ok {
			s = &GroupSummary{GroupID: p.GroupID, GroupName: groupName[p.GroupID]}
			byGroup[p.GroupID] = s
		}
		s.Players++
	}
	for _, r := range final {
		p, ok := playerByID[r.PlayerID]
		if !ok {
			continue
		}
		if s, ok := byGroup[p.GroupID]; ok {
			s.Reports++
		}
	}

	out := make([]GroupSummary, 0, len(byGroup))
	for _, s := range byGroup {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupName < out[j].GroupName })
	return out
}

func summarizeCoaches(ctx context.Context, accounts DashboardAccountStore, players []player.Player, final []report.Report) []CoachSummary {
	byCoach := make(map[string]*CoachSummary)
	for _, p := range players {
		s, ok := byCoach[p.CoachID]
		if !ok {
			s = &CoachSummary{CoachID: p.CoachID}
			if acct, err := accounts.GetByID(ctx, p.CoachID); err == nil {
				s.CoachName = acct.Name
			}
			byCoach[p.CoachID] = s
		}
		s.Players++
	}
	for _, r := range final {
		if s, ok := byCoach[r.CoachID]; ok {
			s.Reports++
		}
	}

	out := make([]CoachSummary, 0, len(byCoach))
	for _, s := range byCoach {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoachName < out[j].CoachName })
	return out
}

func summarizeFlows(final []report.Report, playerByID map[string]player.Player, groupName map[string]string) []RecommendationFlow {
	type key struct{ from, to string }
	counts := make(map[key]int)
	for _, r := range final {
		if r.RecommendedGroupID == "" {
			continue
		}
		p, ok := playerByID[r.PlayerID]
		if !ok {
			continue
		}
		counts[key{p.GroupID, r.RecommendedGroupID}]++
	}

	out := make([]RecommendationFlow, 0, len(counts))
	for k, n := range counts {
		out = append(out, RecommendationFlow{
			FromGroup: groupName[k.from],
			ToGroup:   groupName[k.to],
			Count:     n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromGroup != out[j].FromGroup {
			return out[i].FromGroup < out[j].FromGroup
		}
		return out[i].ToGroup < out[j].ToGroup
	})
	return out
}
