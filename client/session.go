package client

import "context"

// State is the resolved session state. It only moves forward from
// Unresolved; a 401 on any authenticated call drops it back to
// Anonymous.
type State int

const (
	StateUnresolved State = iota
	StateAnonymous
	StateAuthenticatedNoProfile
	StateAuthenticatedWithProfile
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticatedNoProfile:
		return "authenticated-no-profile"
	case StateAuthenticatedWithProfile:
		return "authenticated"
	}
	return "unresolved"
}

// ProviderSession is what the auth provider hands over after sign-in:
// an opaque bearer token plus the identity it was minted for.
type ProviderSession struct {
	Token string
	ID    string
	Email string
}

// ResolveSession establishes the session from a provider callback. A
// nil session clears the token and profile. Otherwise the token is
// stored first so the profile fetch (and everything after it) carries
// credentials; a failed or slow profile fetch is swallowed and leaves
// the session authenticated without a profile rather than tearing it
// down.
func (c *Client) ResolveSession(ctx context.Context, session *ProviderSession) State {
	if session == nil || session.Token == "" {
		c.teardown()
		return StateAnonymous
	}

	c.setToken(session.Token)
	c.mu.Lock()
	c.state = StateAuthenticatedNoProfile
	c.profile = nil
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, profileResolveTimeout)
	defer cancel()

	var profile Profile
	if err := c.do(fetchCtx, "GET", "/profile/", nil, &profile); err != nil {
		// The 401 path has already torn the session down inside do.
		c.mu.RLock()
		state := c.state
		c.mu.RUnlock()
		return state
	}

	c.mu.Lock()
	c.state = StateAuthenticatedWithProfile
	c.profile = &profile
	c.mu.Unlock()
	return StateAuthenticatedWithProfile
}

// SessionState returns the current state and profile snapshot.
func (c *Client) SessionState() (State, *Profile) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.profile
}

// SignOut clears the token and returns the session to Anonymous.
func (c *Client) SignOut() {
	c.teardown()
}

// RefreshProfile refetches the profile for an authenticated session,
// upgrading AuthenticatedNoProfile once the backend recovers.
func (c *Client) RefreshProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, "GET", "/profile/", nil, &profile); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.state = StateAuthenticatedWithProfile
	c.profile = &profile
	c.mu.Unlock()
	return &profile, nil
}

// UpdateProfile sends a partial profile update and refreshes the
// cached snapshot.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, "PUT", "/profile/", fields, &profile); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.profile = &profile
	c.state = StateAuthenticatedWithProfile
	c.mu.Unlock()
	return &profile, nil
}

// CompleteOnboarding submits the mandatory first-run profile form.
func (c *Client) CompleteOnboarding(ctx context.Context, fullName, orgType, specialization string) (*Profile, error) {
	body := map[string]string{
		"full_name":      fullName,
		"org_type":       orgType,
		"specialization": specialization,
	}
	var resp struct {
		Success bool    `json:"success"`
		Profile Profile `json:"profile"`
	}
	if err := c.do(ctx, "POST", "/profile/onboarding/", body, &resp); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.profile = &resp.Profile
	c.state = StateAuthenticatedWithProfile
	c.mu.Unlock()
	return &resp.Profile, nil
}
