package session

import "fmt"

// Session is the client-held representation of the logged-in user. A zero
// Session means "not logged in". The token is opaque; the backend mints it
// and every authenticated call echoes it back.
type Session struct {
	Token          string `json:"session_token,omitempty"`
	Username       string `json:"user_name,omitempty"`
	Email          string `json:"user_email,omitempty"`
	ProfileIconURL string `json:"profile_icon_url,omitempty"`
	Role           Role   `json:"user_type,omitempty"`
}

// IsAuthenticated reports whether the session carries a token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsZero reports whether every field is empty.
func (s Session) IsZero() bool {
	return s == Session{}
}

// Normalize enforces the session invariant: no token means no profile
// fields and no role. Stores and the Manager call this before handing a
// Session to anyone else, so a half-cleared record can never leak out.
func (s Session) Normalize() Session {
	if s.Token == "" {
		return Session{}
	}
	if !s.Role.IsValid() {
		s.Role = RoleUnknown
	}
	return s
}

// Merge applies a profile update, leaving the token alone.
func (s Session) Merge(update ProfileUpdate) Session {
	if update.Username != nil {
		s.Username = *update.Username
	}
	if update.Email != nil {
		s.Email = *update.Email
	}
	if update.ProfileIconURL != nil {
		s.ProfileIconURL = *update.ProfileIconURL
	}
	return s
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	ProfileIconURL *string
}

// String renders the session without leaking the token.
func (s Session) String() string {
	token := "<absent>"
	if s.Token != "" {
		token = "<present>"
	}
	return fmt.Sprintf(
		"token=%s username=%s email=%s role=%s",
		token,
		s.Username,
		s.Email,
		s.Role,
	)
}
