package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
)

// TestGateVisibilityPolicy pins the role/destination business rules. These
// are compatibility sensitive, do not adjust without the backend team.
func TestGateVisibilityPolicy(t *testing.T) {
	gate := session.NewGate()

	tests := []struct {
		role       session.Role
		clientMgmt bool
		adminTools bool
	}{
		{session.RoleAdmin, false, true},
		{session.RoleFundAdministrator, false, false},
		{session.RoleFundManager, true, false},
		{session.RoleUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.clientMgmt, gate.Visible(session.DestinationClientManagement, tt.role))
			assert.Equal(t, tt.adminTools, gate.Visible(session.DestinationAdminTools, tt.role))
			assert.True(t, gate.Visible(session.DestinationHome, tt.role))
			assert.True(t, gate.Visible(session.DestinationProfile, tt.role))
		})
	}
}

func TestGateEvaluate(t *testing.T) {
	gate := session.NewGate()

	t.Run("no token redirects to login", func(t *testing.T) {
		decision := gate.Evaluate(session.NavigationRequest{
			Destination: session.DestinationHome,
			HasToken:    false,
		})

		assert.False(t, decision.Allowed)
		assert.Equal(t, session.DestinationLogin, decision.RedirectTo)
	})

	t.Run("public destinations need no session", func(t *testing.T) {
		for _, dest := range []session.Destination{session.DestinationLogin, session.DestinationRegister} {
			decision := gate.Evaluate(session.NavigationRequest{Destination: dest})
			assert.True(t, decision.Allowed, "destination %s", dest)
		}
	})

	t.Run("hidden destination redirects home", func(t *testing.T) {
		decision := gate.Evaluate(session.NavigationRequest{
			Destination: session.DestinationAdminTools,
			Role:        session.RoleFundManager,
			HasToken:    true,
		})

		assert.False(t, decision.Allowed)
		assert.Equal(t, session.DestinationHome, decision.RedirectTo)
	})

	t.Run("unresolved role fails closed", func(t *testing.T) {
		decision := gate.Evaluate(session.NavigationRequest{
			Destination: session.DestinationAdminTools,
			Role:        session.Role(""),
			HasToken:    true,
		})

		assert.False(t, decision.Allowed)
	})

	t.Run("allowed destination passes", func(t *testing.T) {
		decision := gate.Evaluate(session.NavigationRequest{
			Destination: session.DestinationClientManagement,
			Role:        session.RoleFundManager,
			HasToken:    true,
		})

		assert.True(t, decision.Allowed)
	})
}

func TestGateVisibleDestinations(t *testing.T) {
	gate := session.NewGate()

	assert.Equal(t, []session.Destination{
		session.DestinationHome,
		session.DestinationProfile,
		session.DestinationAdminTools,
	}, gate.VisibleDestinations(session.RoleAdmin))

	assert.Equal(t, []session.Destination{
		session.DestinationHome,
		session.DestinationProfile,
		session.DestinationClientManagement,
	}, gate.VisibleDestinations(session.RoleFundManager))

	assert.Equal(t, []session.Destination{
		session.DestinationHome,
		session.DestinationProfile,
	}, gate.VisibleDestinations(session.RoleFundAdministrator))
}

func TestScreenState(t *testing.T) {
	var st session.ScreenState

	assert.False(t, st.Authenticated())
	assert.Equal(t, session.RoleUnknown, st.Role())

	t.Run("login transitions to authenticated", func(t *testing.T) {
		changed := st.Apply(session.Session{Token: "t1", Role: session.RoleAdmin})
		assert.True(t, changed)
		assert.True(t, st.Authenticated())
		assert.Equal(t, session.RoleAdmin, st.Role())
	})

	t.Run("same session is not a change", func(t *testing.T) {
		changed := st.Apply(session.Session{Token: "t1", Role: session.RoleAdmin})
		assert.False(t, changed)
	})

	t.Run("logout transitions back, role fails closed", func(t *testing.T) {
		changed := st.Apply(session.Session{})
		assert.True(t, changed)
		assert.False(t, st.Authenticated())
		assert.Equal(t, session.RoleUnknown, st.Role())
	})

	t.Run("cycles indefinitely", func(t *testing.T) {
		assert.True(t, st.Apply(session.Session{Token: "t2", Role: session.RoleFundManager}))
		assert.True(t, st.Apply(session.Session{}))
		assert.True(t, st.Apply(session.Session{Token: "t3"}))
		assert.Equal(t, session.RoleUnknown, st.Role())
	})
}
