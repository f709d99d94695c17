// Package guard decides, per navigation, whether a requested view renders or
// redirects. Decisions are pure functions of the session snapshot: identical
// state always yields the identical decision.
package guard

import "github.com/La-Phoenix/bugtrackr/internal/session"

// State is the outcome of a guard evaluation
type State int

const (
	// Determining means the session is still loading; render a loading
	// indicator and re-evaluate once it settles
	Determining State = iota
	// Authorized means the requested view renders
	Authorized
	// RedirectToLogin sends an unauthenticated visitor to the login entry
	// point, carrying the originally requested location
	RedirectToLogin
	// RedirectToApp sends an already-authenticated visitor away from a
	// public view to the default landing view
	RedirectToApp
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case Determining:
		return "determining"
	case Authorized:
		return "authorized"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToApp:
		return "redirect-to-app"
	default:
		return "unknown"
	}
}

// Decision is a guard outcome. Target is the redirect destination for the
// redirect states: the originally requested path for RedirectToLogin so the
// login flow can return the user there, or the landing path for RedirectToApp.
type Decision struct {
	State  State
	Target string
}

// Protected evaluates a guard for a protected view. The requested path rides
// along on the redirect so login can return the user to it.
func Protected(snap session.Snapshot, requested string) Decision {
	if snap.Loading {
		return Decision{State: Determining}
	}
	if snap.Authenticated {
		return Decision{State: Authorized}
	}
	return Decision{State: RedirectToLogin, Target: requested}
}

// Public evaluates a guard for a public view such as the login form.
// Authenticated visitors are sent to the default landing view instead.
func Public(snap session.Snapshot, landing string) Decision {
	if snap.Loading {
		return Decision{State: Determining}
	}
	if snap.Authenticated {
		return Decision{State: RedirectToApp, Target: landing}
	}
	return Decision{State: Authorized}
}
