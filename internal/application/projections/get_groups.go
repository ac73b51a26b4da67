package projections

import (
	"context"
	"sort"

	"courtside/internal/domain/group"
)

// GroupListStore defines the group store interface needed by the groups projection.
type GroupListStore interface {
	List(ctx context.Context) ([]group.Group, error)
	ListSessionsByGroupID(ctx context.Context, groupID string) ([]group.Session, error)
}

// GetGroupsDeps holds dependencies for the groups projection.
type GetGroupsDeps struct {
	GroupStore GroupListStore
}

// GroupWithSessions is one group plus its weekly time slots.
type GroupWithSessions struct {
	Group    group.Group
	Sessions []group.Session
	Labels   []string // rendered slot labels, e.g. "Monday 16:00-17:00"
}

// QueryGetGroups lists every coaching group with its sessions.
func QueryGetGroups(ctx context.Context, deps GetGroupsDeps) ([]GroupWithSessions, error) {
	groups, err := deps.GroupStore.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]GroupWithSessions, 0, len(groups))
	for _, g := range groups {
		row := GroupWithSessions{Group: g}
		sessions, err := deps.GroupStore.ListSessionsByGroupID(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		row.Sessions = sessions
		for _, s := range sessions {
			row.Labels = append(row.Labels, s.Label())
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group.Name < out[j].Group.Name })
	return out, nil
}
