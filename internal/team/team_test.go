package team

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/La-Phoenix/bugtrackr/internal/api"
)

func TestComputePerformance_JoinsUsersAndIssues(t *testing.T) {
	users := []api.User{
		{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
		{ID: "u3", Name: "Cal", Email: "cal@example.com"},
	}
	issues := []api.Issue{
		{ID: "i1", AssigneeID: "u1", Status: "resolved"},
		{ID: "i2", AssigneeID: "u1", Status: "open"},
		{ID: "i3", AssigneeID: "u1", Status: "closed"},
		{ID: "i4", AssigneeID: "u2", Status: "in_progress"},
		{ID: "i5", AssigneeID: "", Status: "open"}, // Unassigned
	}

	members := ComputePerformance(users, issues)
	require.Len(t, members, 3)

	// Sorted by resolved count descending
	assert.Equal(t, "Ada", members[0].User.Name)
	assert.Equal(t, 3, members[0].Assigned)
	assert.Equal(t, 2, members[0].Resolved)
	assert.InDelta(t, 2.0/3.0, members[0].ResolutionRate, 1e-9)

	assert.Equal(t, "Bob", members[1].User.Name)
	assert.Equal(t, 1, members[1].Assigned)
	assert.Equal(t, 0, members[1].Resolved)
	assert.Zero(t, members[1].ResolutionRate)

	assert.Equal(t, "Cal", members[2].User.Name)
	assert.Zero(t, members[2].Assigned)
	assert.Zero(t, members[2].ResolutionRate)
}

func TestComputePerformance_DoesNotMutateInputs(t *testing.T) {
	users := []api.User{{ID: "u1", Name: "Ada"}}
	issues := []api.Issue{{ID: "i1", AssigneeID: "u1", Status: "resolved"}}

	before := issues[0]
	_ = ComputePerformance(users, issues)
	_ = ComputePerformance(users, issues)

	assert.Equal(t, before, issues[0], "source records must not be mutated")
}

func TestComputePerformance_EmptyInputs(t *testing.T) {
	assert.Empty(t, ComputePerformance(nil, nil))
}

type staticTokens struct{}

func (staticTokens) Token() (string, bool) { return "tok", true }

func TestLoad_FetchesConcurrentlyAndJoins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			w.Write([]byte(`{"success":true,"data":[{"id":"u1","name":"Ada","email":"ada@example.com"}]}`))
		case "/api/issues":
			w.Write([]byte(`{"success":true,"data":[{"id":"i1","assignee_id":"u1","status":"resolved"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := api.New(ts.URL, staticTokens{}, zerolog.Nop())
	members, err := Load(context.Background(), api.NewUserService(client), api.NewIssueService(client))
	require.NoError(t, err)

	require.Len(t, members, 1)
	assert.Equal(t, 1, members[0].Assigned)
	assert.Equal(t, 1, members[0].Resolved)
}

func TestLoad_SurfacesFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"Admin access required"}`))
		case "/api/issues":
			w.Write([]byte(`{"success":true,"data":[]}`))
		}
	}))
	defer ts.Close()

	client := api.New(ts.URL, staticTokens{}, zerolog.Nop())
	_, err := Load(context.Background(), api.NewUserService(client), api.NewIssueService(client))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Admin access required")
}
