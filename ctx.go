package session

import "context"

var managerCtxKey = &contextKey{"session-manager"}
var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithManager sets the Manager in the given context
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, m)
}

// ManagerFromContext finds the manager from the context.
func ManagerFromContext(ctx context.Context) (*Manager, bool) {
	raw, ok := ctx.Value(managerCtxKey).(*Manager)
	return raw, ok
}

// WithSession sets a Session snapshot in the given context
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// FromContext finds the session snapshot from the context.
func FromContext(ctx context.Context) (Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(Session)
	return raw, ok
}

// Can is a convenience function to check a destination directly from the
// context. Missing session means fail closed.
func Can(ctx context.Context, dest Destination) bool {
	s, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return NewGate().EvaluateSession(dest, s).Allowed
}
