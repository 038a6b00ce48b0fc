package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver answers "what is this user's role" with at most one backend
// fetch per session token. Concurrent callers collapse onto the same
// in-flight request, a failed fetch resolves to RoleUnknown and is
// remembered, and nothing is retried until Invalidate (a new login, or a
// user revisiting the screen through ForceRefresh).
type Resolver struct {
	backend Backend
	logger  Logger
	group   singleflight.Group

	mu      sync.Mutex
	entries map[string]roleEntry
}

type roleEntry struct {
	role     Role
	resolved bool
}

// ResolverOption customizes Resolver construction.
type ResolverOption func(*Resolver)

// WithResolverLogger overrides the default logger.
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a role resolver backed by the given backend.
func NewResolver(backend Backend, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		backend: backend,
		logger:  defLogger{},
		entries: map[string]roleEntry{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve returns the role for the given session. Resolution order: a
// valid role already on the session, the per-token cache, then a single
// backend fetch. A session with no token resolves to RoleUnknown without
// touching the network. A failed fetch is cached too, so screens bouncing
// through transitions do not hammer the backend; errors come back
// alongside RoleUnknown and the role answer itself always fails closed.
func (r *Resolver) Resolve(ctx context.Context, s Session) (Role, error) {
	if !s.IsAuthenticated() {
		return RoleUnknown, nil
	}

	if s.Role.IsValid() && s.Role != RoleUnknown {
		return s.Role, nil
	}

	r.mu.Lock()
	if entry, ok := r.entries[s.Token]; ok {
		r.mu.Unlock()
		if entry.resolved {
			return entry.role, nil
		}
		return RoleUnknown, nil
	}
	r.mu.Unlock()

	return r.fetch(ctx, s.Token)
}

// ForceRefresh drops the cache entry for the session and fetches again.
// This is the user-initiated retry path; Resolve never retries on its own.
func (r *Resolver) ForceRefresh(ctx context.Context, s Session) (Role, error) {
	if !s.IsAuthenticated() {
		return RoleUnknown, nil
	}

	r.mu.Lock()
	delete(r.entries, s.Token)
	r.mu.Unlock()

	return r.fetch(ctx, s.Token)
}

// Invalidate drops every cached answer. The Manager calls this on every
// login and logout.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = map[string]roleEntry{}
}

func (r *Resolver) fetch(ctx context.Context, token string) (Role, error) {
	result, err, _ := r.group.Do(token, func() (any, error) {
		// Re-check under the flight lock: a caller that lost the race to a
		// completed fetch must not trigger a second one.
		r.mu.Lock()
		if entry, ok := r.entries[token]; ok {
			r.mu.Unlock()
			if entry.resolved {
				return entry.role, nil
			}
			return RoleUnknown, nil
		}
		r.mu.Unlock()

		userType, err := r.backend.FetchUserType(ctx, token)

		r.mu.Lock()
		defer r.mu.Unlock()

		if err != nil {
			r.entries[token] = roleEntry{role: RoleUnknown}
			r.logger.Debug("role fetch failed, caching unknown until refresh: %v", err)
			return RoleUnknown, err
		}

		role := ParseRole(userType)
		r.entries[token] = roleEntry{role: role, resolved: true}
		return role, nil
	})

	role, ok := result.(Role)
	if !ok {
		role = RoleUnknown
	}
	return role, err
}
