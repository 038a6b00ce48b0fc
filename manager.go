package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// Manager is the single in-memory source of truth for the current Session.
// Screens hold a reference to a Manager and a subscription, never a private
// copy of the session that could drift.
//
// Every Login and Logout bumps a generation counter. Asynchronous
// completions (role fetch, profile refresh) capture the generation they were
// issued under and are discarded if a newer generation installed itself in
// the meantime. That discard is the only superseding mechanism; there is no
// cancellation primitive.
type Manager struct {
	mu       sync.Mutex
	current  Session
	gen      uint64
	store    TokenStore
	backend  Backend
	resolver *Resolver
	logger   Logger

	subscribers    []subscription
	onForcedLogout func(cause error)
}

type subscription struct {
	id uuid.UUID
	fn Subscriber
}

// Option customizes Manager construction.
type Option func(*Manager)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithResolver injects a shared role resolver, useful in tests.
func WithResolver(resolver *Resolver) Option {
	return func(m *Manager) {
		if resolver != nil {
			m.resolver = resolver
		}
	}
}

// WithForcedLogoutHandler registers a hook invoked after the Manager logs
// the session out because the backend rejected the token. Screens use it to
// surface the "please sign in again" notice and redirect.
func WithForcedLogoutHandler(handler func(cause error)) Option {
	return func(m *Manager) {
		m.onForcedLogout = handler
	}
}

// New creates a Manager backed by the given store and backend. The store is
// single-writer: nothing else should write session state behind the
// Manager's back.
func New(store TokenStore, backend Backend, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		backend: backend,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.resolver == nil {
		m.resolver = NewResolver(backend, WithResolverLogger(m.logger))
	}

	return m
}

// Restore loads the persisted session, if any. Storage trouble degrades to
// an empty session; it never fails the caller.
func (m *Manager) Restore(ctx context.Context) {
	persisted, err := m.store.Get(ctx)
	if err != nil {
		m.logger.Error("restore: token store read failed: %v", err)
		persisted = Session{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = persisted.Normalize()
	if m.current.IsAuthenticated() {
		m.gen++
	}
	m.notifyLocked()
}

// Login installs a new session, persists it, and notifies subscribers.
// The session must carry a token.
func (m *Manager) Login(ctx context.Context, s Session) error {
	s = s.Normalize()
	if !s.IsAuthenticated() {
		return ErrInvalidState.WithMetadata(map[string]any{
			"reason": "login requires a session token",
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.current = s
	m.resolver.Invalidate()
	m.persistLocked(ctx)
	m.notifyLocked()

	return nil
}

// Authenticate exchanges credentials for a token and installs the session.
// The role is not resolved here; call RefreshRole once the caller is ready
// to render role-gated UI.
func (m *Manager) Authenticate(ctx context.Context, email, password string) error {
	token, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.Login(ctx, Session{Token: token, Email: email})
}

// Register creates an account and, on success, authenticates it.
func (m *Manager) Register(ctx context.Context, username, email, password, userType string) error {
	if err := m.backend.Register(ctx, username, email, password, userType); err != nil {
		return err
	}
	return m.Authenticate(ctx, email, password)
}

// Logout clears the session and the store. Idempotent: a second call
// against an already empty session changes nothing and notifies nobody.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutLocked(ctx)
}

func (m *Manager) logoutLocked(ctx context.Context) error {
	if !m.current.IsAuthenticated() {
		return nil
	}

	m.gen++
	m.current = Session{}
	m.resolver.Invalidate()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("logout: token store clear failed: %v", err)
	}

	m.notifyLocked()
	return nil
}

// UpdateProfile merges profile fields into the current session without
// touching the token. Calling it with no session installed is a contract
// violation and returns ErrInvalidState.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.current.IsAuthenticated() {
		return ErrInvalidState.WithMetadata(map[string]any{
			"operation": "update_profile",
		})
	}

	m.current = m.current.Merge(update)
	m.persistLocked(ctx)
	m.notifyLocked()

	return nil
}

// RefreshRole resolves the current role and applies it, unless a login or
// logout superseded the session while the fetch was in flight. The zero
// role answer always fails closed.
func (m *Manager) RefreshRole(ctx context.Context) (Role, error) {
	return m.refreshRole(ctx, false)
}

// ForceRefreshRole drops the cached role answer for the current session
// and fetches again. After a failed fetch pinned the role at RoleUnknown,
// this is the retry: the user revisits the screen, the screen calls this.
func (m *Manager) ForceRefreshRole(ctx context.Context) (Role, error) {
	return m.refreshRole(ctx, true)
}

func (m *Manager) refreshRole(ctx context.Context, force bool) (Role, error) {
	m.mu.Lock()
	snapshot := m.current
	issuedGen := m.gen
	m.mu.Unlock()

	if !snapshot.IsAuthenticated() {
		return RoleUnknown, nil
	}

	resolve := m.resolver.Resolve
	if force {
		resolve = m.resolver.ForceRefresh
	}

	role, err := resolve(ctx, snapshot)
	if err != nil {
		if IsAuthError(err) {
			if stale := m.forceLogout(ctx, issuedGen, err); stale != nil {
				return RoleUnknown, stale
			}
			return RoleUnknown, err
		}
		m.logger.Info("role fetch failed, resolving to unknown: %v", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != issuedGen {
		m.logger.Debug("discarding role fetch from generation %d (current %d)", issuedGen, m.gen)
		return RoleUnknown, ErrStaleResponse
	}

	m.current.Role = role
	m.persistLocked(ctx)
	m.notifyLocked()

	return role, err
}

// RefreshProfile fetches username, email and profile icon from the backend
// and merges them under the same generation check as RefreshRole. The three
// fetches run in parallel; the first failure wins.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	snapshot := m.current
	issuedGen := m.gen
	m.mu.Unlock()

	if !snapshot.IsAuthenticated() {
		return ErrInvalidState.WithMetadata(map[string]any{
			"operation": "refresh_profile",
		})
	}

	update, err := fetchProfile(ctx, m.backend, snapshot.Token)
	if err != nil {
		if IsAuthError(err) {
			if stale := m.forceLogout(ctx, issuedGen, err); stale != nil {
				return stale
			}
		}
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != issuedGen {
		m.logger.Debug("discarding profile fetch from generation %d (current %d)", issuedGen, m.gen)
		return ErrStaleResponse
	}

	m.current = m.current.Merge(update)
	m.persistLocked(ctx)
	m.notifyLocked()

	return nil
}

// DeleteAccount asks the backend to remove the account, then destroys the
// local session. The local session goes away even when the backend already
// considered the token invalid.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	m.mu.Lock()
	snapshot := m.current
	issuedGen := m.gen
	m.mu.Unlock()

	if !snapshot.IsAuthenticated() {
		return ErrInvalidState.WithMetadata(map[string]any{
			"operation": "delete_account",
		})
	}

	if err := m.backend.DeleteUser(ctx, snapshot.Token); err != nil {
		if IsAuthError(err) {
			if stale := m.forceLogout(ctx, issuedGen, err); stale != nil {
				return stale
			}
		}
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != issuedGen {
		return ErrStaleResponse
	}
	return m.logoutLocked(ctx)
}

// Subscribe registers a callback for every applied session change and
// returns the matching unsubscribe. Callbacks run synchronously on the
// mutating goroutine, in registration order, and must not call back into
// the Manager.
func (m *Manager) Subscribe(fn Subscriber) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	id := uuid.New()

	m.mu.Lock()
	m.subscribers = append(m.subscribers, subscription{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subscribers {
			if sub.id == id {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Generation returns the current session generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// forceLogout destroys the session after the backend rejected its token.
// A rejection belonging to a superseded generation is discarded like any
// other stale completion: the successor session must survive it.
func (m *Manager) forceLogout(ctx context.Context, issuedGen uint64, cause error) error {
	m.mu.Lock()
	if m.gen != issuedGen {
		currentGen := m.gen
		m.mu.Unlock()
		m.logger.Debug("discarding auth rejection from generation %d (current %d)", issuedGen, currentGen)
		return ErrStaleResponse
	}

	var richErr *errors.Error
	if errors.As(cause, &richErr) {
		m.logger.Error(
			"backend rejected session token, logging out: %s details=%s",
			richErr.Message,
			print.MaybePrettyJSON(richErr.Metadata),
		)
	} else {
		m.logger.Error("backend rejected session token, logging out: %v", cause)
	}

	if err := m.logoutLocked(ctx); err != nil {
		m.logger.Error("forced logout failed: %v", err)
	}
	handler := m.onForcedLogout
	m.mu.Unlock()

	if handler != nil {
		handler(cause)
	}
	return nil
}

// persistLocked writes the current session through the store, logging
// instead of failing: durable state degrades, in-memory truth stands.
func (m *Manager) persistLocked(ctx context.Context) {
	if err := m.store.Set(ctx, m.current); err != nil {
		m.logger.Error("token store write failed: %v", err)
	}
}

func (m *Manager) notifyLocked() {
	for _, sub := range m.subscribers {
		sub.fn(m.current)
	}
}
