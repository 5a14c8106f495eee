package nav

// Authenticator reports whether a session is present.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard redirects locations the current session may not see.
type Guard struct {
	auth Authenticator
}

// NewGuard creates a Guard backed by auth.
func NewGuard(auth Authenticator) Guard {
	return Guard{auth: auth}
}

// Resolve returns the location to actually show for loc and whether it
// differs from loc. Unknown locations fall back to the root, the root goes to
// the product list or the login screen, and protected locations require a
// session.
func (g Guard) Resolve(loc Location) (Location, bool) {
	authed := g.auth != nil && g.auth.IsAuthenticated()

	target := loc
	if !target.Known() {
		target = At(Root)
	}
	if target.Route == Root {
		if authed {
			target = At(Products)
		} else {
			target = At(Login)
		}
	}
	if target.Protected() && !authed {
		target = At(Login)
	}
	return target, target != loc
}
