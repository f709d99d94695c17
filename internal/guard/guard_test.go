package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/La-Phoenix/bugtrackr/internal/credstore"
	"github.com/La-Phoenix/bugtrackr/internal/session"
)

func anonymous() session.Snapshot {
	return session.Snapshot{}
}

func authenticated() session.Snapshot {
	return session.Snapshot{
		User:          &credstore.User{ID: "1", Email: "dev@example.com"},
		Authenticated: true,
	}
}

func loading() session.Snapshot {
	return session.Snapshot{Loading: true}
}

func TestProtected_AnonymousRedirectsToLoginWithRequestedPath(t *testing.T) {
	decision := Protected(anonymous(), "issues/42")

	assert.Equal(t, RedirectToLogin, decision.State)
	assert.Equal(t, "issues/42", decision.Target, "the redirect carries the attempted path")
}

func TestProtected_AuthenticatedRenders(t *testing.T) {
	decision := Protected(authenticated(), "issues/42")

	assert.Equal(t, Authorized, decision.State)
	assert.Empty(t, decision.Target)
}

func TestProtected_LoadingIsDetermining(t *testing.T) {
	decision := Protected(loading(), "issues/42")

	assert.Equal(t, Determining, decision.State)
}

func TestProtected_LoadingWinsOverAuthenticatedFlag(t *testing.T) {
	// Until the session settles, no terminal decision is trusted
	snap := authenticated()
	snap.Loading = true

	decision := Protected(snap, "dashboard")
	assert.Equal(t, Determining, decision.State)
}

func TestPublic_AuthenticatedRedirectsToApp(t *testing.T) {
	decision := Public(authenticated(), "dashboard")

	assert.Equal(t, RedirectToApp, decision.State)
	assert.Equal(t, "dashboard", decision.Target)
}

func TestPublic_AnonymousRenders(t *testing.T) {
	decision := Public(anonymous(), "dashboard")

	assert.Equal(t, Authorized, decision.State)
}

func TestPublic_LoadingIsDetermining(t *testing.T) {
	decision := Public(loading(), "dashboard")

	assert.Equal(t, Determining, decision.State)
}

func TestDecisions_AreDeterministic(t *testing.T) {
	// Identical session state always yields the identical decision
	for i := 0; i < 10; i++ {
		assert.Equal(t, Protected(anonymous(), "p"), Protected(anonymous(), "p"))
		assert.Equal(t, Public(authenticated(), "l"), Public(authenticated(), "l"))
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "determining", Determining.String())
	assert.Equal(t, "authorized", Authorized.String())
	assert.Equal(t, "redirect-to-login", RedirectToLogin.String())
	assert.Equal(t, "redirect-to-app", RedirectToApp.String())
}
