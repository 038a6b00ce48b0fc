package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore is the durable home of the current session. Implementations
// must treat an empty token as "no session": Get on an empty store returns
// a zero Session and a nil error.
type TokenStore interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Backend is the remote API surface the session layer consumes. All calls
// are blocking; run them off the UI path and apply results through the
// Manager so stale completions get discarded.
type Backend interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, username, email, password, userType string) error
	FetchUserType(ctx context.Context, token string) (string, error)
	FetchUsername(ctx context.Context, token string) (string, error)
	FetchEmail(ctx context.Context, token string) (string, error)
	FetchProfileIcon(ctx context.Context, token string) (string, error)
	DeleteUser(ctx context.Context, token string) error
}

// Subscriber receives every applied session change, in order.
type Subscriber func(s Session)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
