package session_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-session"
)

// mockBackend lets each test script the remote API. Unset functions fail
// loudly so a test never exercises an endpoint it did not mean to.
type mockBackend struct {
	mu sync.Mutex

	loginFn       func(ctx context.Context, email, password string) (string, error)
	registerFn    func(ctx context.Context, username, email, password, userType string) error
	userTypeFn    func(ctx context.Context, token string) (string, error)
	usernameFn    func(ctx context.Context, token string) (string, error)
	emailFn       func(ctx context.Context, token string) (string, error)
	profileIconFn func(ctx context.Context, token string) (string, error)
	deleteUserFn  func(ctx context.Context, token string) error

	userTypeCalls int
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFn == nil {
		return "", fmt.Errorf("unexpected Login call")
	}
	return m.loginFn(ctx, email, password)
}

func (m *mockBackend) Register(ctx context.Context, username, email, password, userType string) error {
	if m.registerFn == nil {
		return fmt.Errorf("unexpected Register call")
	}
	return m.registerFn(ctx, username, email, password, userType)
}

func (m *mockBackend) FetchUserType(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	m.userTypeCalls++
	m.mu.Unlock()

	if m.userTypeFn == nil {
		return "", fmt.Errorf("unexpected FetchUserType call")
	}
	return m.userTypeFn(ctx, token)
}

func (m *mockBackend) FetchUsername(ctx context.Context, token string) (string, error) {
	if m.usernameFn == nil {
		return "", fmt.Errorf("unexpected FetchUsername call")
	}
	return m.usernameFn(ctx, token)
}

func (m *mockBackend) FetchEmail(ctx context.Context, token string) (string, error) {
	if m.emailFn == nil {
		return "", fmt.Errorf("unexpected FetchEmail call")
	}
	return m.emailFn(ctx, token)
}

func (m *mockBackend) FetchProfileIcon(ctx context.Context, token string) (string, error) {
	if m.profileIconFn == nil {
		return "", fmt.Errorf("unexpected FetchProfileIcon call")
	}
	return m.profileIconFn(ctx, token)
}

func (m *mockBackend) DeleteUser(ctx context.Context, token string) error {
	if m.deleteUserFn == nil {
		return fmt.Errorf("unexpected DeleteUser call")
	}
	return m.deleteUserFn(ctx, token)
}

func (m *mockBackend) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userTypeCalls
}

var _ session.Backend = (*mockBackend)(nil)

// brokenStore simulates unavailable storage. Everything fails.
type brokenStore struct{}

func (brokenStore) Get(context.Context) (session.Session, error) {
	return session.Session{}, fmt.Errorf("storage unavailable")
}

func (brokenStore) Set(context.Context, session.Session) error {
	return fmt.Errorf("storage unavailable")
}

func (brokenStore) Clear(context.Context) error {
	return fmt.Errorf("storage unavailable")
}

var _ session.TokenStore = brokenStore{}

// quietLogger keeps test output clean.
type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}
