package client

// RequiredRole is the access level a route subtree demands.
type RequiredRole string

const (
	RoleUser  RequiredRole = "user"
	RoleAdmin RequiredRole = "admin"
)

// Outcome is what the guard tells the router to do.
type Outcome int

const (
	Loading Outcome = iota
	Render
	Redirect
)

// Decision is the guard verdict; Path is set only for Redirect.
type Decision struct {
	Outcome Outcome
	Path    string
}

func render() Decision { return Decision{Outcome: Render} }
func loading() Decision { return Decision{Outcome: Loading} }
func redirect(path string) Decision { return Decision{Outcome: Redirect, Path: path} }

// Guard decides whether the current session may see a route subtree.
//
// Policy for an authenticated session whose profile fetch failed:
// user routes are let through (the shopper can browse while the
// profile catches up on a later call), admin routes stay closed until
// an admin profile is actually in hand.
func (c *Client) Guard(required RequiredRole) Decision {
	state, profile := c.SessionState()

	switch state {
	case StateUnresolved:
		return loading()
	case StateAnonymous:
		return redirect("/login")
	}

	if required == RoleAdmin {
		if profile == nil || profile.Role != "admin" {
			return redirect("/")
		}
		return render()
	}

	if profile != nil {
		if profile.Role == "admin" {
			// Admins are steered away from shopper-only pages.
			return redirect("/admin")
		}
		if profile.NeedsOnboarding() {
			return redirect("/onboarding")
		}
	}
	return render()
}
