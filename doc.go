// Package session owns the client-side identity state for the trading
// platform clients: the authenticated session (token plus profile fields
// plus role), its durable persistence, subscription-based propagation to
// screens, role resolution against the remote API, and role-gated
// navigation decisions.
//
// The Manager is the single source of truth. Screens subscribe and read;
// only the Manager mutates the session or writes the token store. Stale
// network completions are discarded via a monotonically increasing session
// generation, bumped on every login and logout.
package session
