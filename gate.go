package session

// Destination identifies a navigable screen or menu entry.
type Destination string

const (
	DestinationHome             Destination = "home"
	DestinationProfile          Destination = "profile"
	DestinationClientManagement Destination = "client-management"
	DestinationAdminTools       Destination = "admin-tools"
	DestinationLogin            Destination = "login"
	DestinationRegister         Destination = "register"
)

// NavigationRequest is evaluated per navigation action and never persisted.
type NavigationRequest struct {
	Destination Destination
	Role        Role
	HasToken    bool
}

// Decision is the gate's answer: either the navigation proceeds, or the
// caller redirects.
type Decision struct {
	Allowed    bool
	RedirectTo Destination
}

// visibility is the role-to-destination policy. It is static business
// configuration: fund managers get client management, admins get admin
// tools, fund administrators and unknown roles get neither. Compatibility
// sensitive, change only with the backend team.
var visibility = map[Role]map[Destination]struct{}{
	RoleAdmin: {
		DestinationHome:       {},
		DestinationProfile:    {},
		DestinationAdminTools: {},
	},
	RoleFundAdministrator: {
		DestinationHome:    {},
		DestinationProfile: {},
	},
	RoleFundManager: {
		DestinationHome:             {},
		DestinationProfile:          {},
		DestinationClientManagement: {},
	},
	RoleUnknown: {
		DestinationHome:    {},
		DestinationProfile: {},
	},
}

// publicDestinations need no session at all.
var publicDestinations = map[Destination]struct{}{
	DestinationLogin:    {},
	DestinationRegister: {},
}

// Gate decides which destinations are reachable for a given role and token
// presence. It holds no mutable state; construct one and share it.
type Gate struct{}

// NewGate returns a navigation gate.
func NewGate() Gate {
	return Gate{}
}

// Evaluate answers a single navigation request. No token on a protected
// destination redirects to login. An unrecognized role is treated as
// RoleUnknown, so privileged entries stay hidden while a role fetch is
// still in flight.
func (g Gate) Evaluate(req NavigationRequest) Decision {
	if _, public := publicDestinations[req.Destination]; public {
		return Decision{Allowed: true}
	}

	if !req.HasToken {
		return Decision{Allowed: false, RedirectTo: DestinationLogin}
	}

	if g.Visible(req.Destination, req.Role) {
		return Decision{Allowed: true}
	}

	return Decision{Allowed: false, RedirectTo: DestinationHome}
}

// Visible reports whether the destination shows up in the menu for the
// given role.
func (g Gate) Visible(dest Destination, role Role) bool {
	if !role.IsValid() {
		role = RoleUnknown
	}

	if allowed, ok := visibility[role]; ok {
		_, exists := allowed[dest]
		return exists
	}
	return false
}

// VisibleDestinations returns the menu for the given role, in display order.
func (g Gate) VisibleDestinations(role Role) []Destination {
	ordered := []Destination{
		DestinationHome,
		DestinationProfile,
		DestinationClientManagement,
		DestinationAdminTools,
	}

	var out []Destination
	for _, dest := range ordered {
		if g.Visible(dest, role) {
			out = append(out, dest)
		}
	}
	return out
}

// EvaluateSession is a convenience wrapper over Evaluate for callers that
// hold a Session rather than an unpacked request.
func (g Gate) EvaluateSession(dest Destination, s Session) Decision {
	return g.Evaluate(NavigationRequest{
		Destination: dest,
		Role:        s.Role,
		HasToken:    s.IsAuthenticated(),
	})
}

// ScreenState is the per-screen authentication state machine. Two states,
// Unauthenticated and Authenticated(role); login moves forward, logout or a
// rejected token moves back. It cycles for the lifetime of the app, there
// is no terminal state. Feed it session changes through Apply, typically
// from a Manager subscription.
type ScreenState struct {
	current Session
}

// Apply ingests a session change and reports whether the screen should
// re-render its menu.
func (st *ScreenState) Apply(s Session) (changed bool) {
	s = s.Normalize()
	if s == st.current {
		return false
	}
	st.current = s
	return true
}

// Authenticated reports whether the screen renders as logged in.
func (st *ScreenState) Authenticated() bool {
	return st.current.IsAuthenticated()
}

// Role returns the role the screen gates on. Unauthenticated screens and
// unresolved fetches both answer RoleUnknown.
func (st *ScreenState) Role() Role {
	if !st.current.IsAuthenticated() {
		return RoleUnknown
	}
	return st.current.Role
}
