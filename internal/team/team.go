// Package team composes the user list and issue list into a per-member
// performance view. The composition is a pure function: source records are
// never mutated and the same inputs always produce the same output.
package team

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/La-Phoenix/bugtrackr/internal/api"
)

// Terminal issue statuses counted as resolved
const (
	statusResolved = "resolved"
	statusClosed   = "closed"
)

// MemberPerformance is the derived view of one team member
type MemberPerformance struct {
	User           api.User
	Assigned       int
	Resolved       int
	ResolutionRate float64 // Resolved / Assigned, 0 when nothing is assigned
}

// ComputePerformance joins users with the issues assigned to them. Members
// are returned sorted by resolved count descending, then by name.
func ComputePerformance(users []api.User, issues []api.Issue) []MemberPerformance {
	assigned := make(map[string]int, len(users))
	resolved := make(map[string]int, len(users))
	for _, issue := range issues {
		if issue.AssigneeID == "" {
			continue
		}
		assigned[issue.AssigneeID]++
		if issue.Status == statusResolved || issue.Status == statusClosed {
			resolved[issue.AssigneeID]++
		}
	}

	members := make([]MemberPerformance, 0, len(users))
	for _, user := range users {
		m := MemberPerformance{
			User:     user,
			Assigned: assigned[user.ID],
			Resolved: resolved[user.ID],
		}
		if m.Assigned > 0 {
			m.ResolutionRate = float64(m.Resolved) / float64(m.Assigned)
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Resolved != members[j].Resolved {
			return members[i].Resolved > members[j].Resolved
		}
		return members[i].User.Name < members[j].User.Name
	})

	return members
}

// Load fetches users and issues concurrently and joins them once both are
// available. Neither fetch is ordered before the other; the join waits for
// both.
func Load(ctx context.Context, users *api.UserService, issues *api.IssueService) ([]MemberPerformance, error) {
	var (
		wg       sync.WaitGroup
		userRes  api.Result[[]api.User]
		issueRes api.Result[[]api.Issue]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		userRes = users.List(ctx)
	}()
	go func() {
		defer wg.Done()
		issueRes = issues.List(ctx)
	}()
	wg.Wait()

	if !userRes.Success {
		return nil, errors.New(userRes.Message)
	}
	if !issueRes.Success {
		return nil, errors.New(issueRes.Message)
	}

	return ComputePerformance(userRes.Data, issueRes.Data), nil
}
