package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/store/memory"
)

func newGuard(t *testing.T, authenticated bool) *Guard {
	t.Helper()
	m := newTestManager(t, memory.New(), &fakeAuth{token: "jwt-abc"})
	if authenticated {
		require.NoError(t, m.Login(context.Background(), "maria@example.com", "changeme"))
	}
	return NewGuard(m, GuardConfig{
		Protected: []string{"/products", "/products/new", "/cart"},
		Public:    []string{"/", "/home"},
	})
}

func TestGuardAllowsPublicRoutes(t *testing.T) {
	g := newGuard(t, false)

	for _, route := range []string{"/", "/home", "/login"} {
		d := g.Authorize(route)
		assert.True(t, d.Allowed, "route %s", route)
	}
}

func TestGuardRedirectsUnauthenticatedToLogin(t *testing.T) {
	g := newGuard(t, false)

	d := g.Authorize("/cart")
	assert.False(t, d.Allowed)
	assert.Equal(t, "/login", d.RedirectTo)
}

func TestGuardAllowsAuthenticatedProtectedRoutes(t *testing.T) {
	g := newGuard(t, true)

	for _, route := range []string{"/products", "/products/new", "/cart"} {
		d := g.Authorize(route)
		assert.True(t, d.Allowed, "route %s", route)
	}
}

func TestGuardRedirectsUnknownRoutesToLanding(t *testing.T) {
	g := newGuard(t, true)

	d := g.Authorize("/no-such-page")
	assert.False(t, d.Allowed)
	assert.Equal(t, "/products", d.RedirectTo)
}
