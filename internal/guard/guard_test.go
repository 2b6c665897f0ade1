package guard_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/guard"
	"github.com/intellirefer/referctl/internal/session"
)

func anonymous() session.Session {
	return session.Session{}
}

func authenticated(role api.Role) session.Session {
	return session.Session{Credential: "token-123", Role: role}
}

func TestUnauthenticatedProtectedRoutesRedirectToLogin(t *testing.T) {
	protected := []string{
		"/employee/dashboard",
		"/manager/dashboard",
		"/manager/jds/42",
		"/manager/selected",
	}
	for _, path := range protected {
		decision := guard.Resolve(path, anonymous())
		assert.Equal(t, guard.RedirectLogin, decision.Kind, "path %s", path)
		assert.Equal(t, guard.LoginPath, decision.Target)
	}
}

func TestRoleGate(t *testing.T) {
	tests := []struct {
		name string
		role api.Role
		path string
		want guard.DecisionKind
	}{
		{name: "employee on manager route", role: api.RoleEmployee, path: "/manager/dashboard", want: guard.RedirectUnauthorized},
		{name: "employee on manager deep link", role: api.RoleEmployee, path: "/manager/jds/42", want: guard.RedirectUnauthorized},
		{name: "manager on employee route", role: api.RoleManager, path: "/employee/dashboard", want: guard.RedirectUnauthorized},
		{name: "employee on employee route", role: api.RoleEmployee, path: "/employee/dashboard", want: guard.Render},
		{name: "manager on manager route", role: api.RoleManager, path: "/manager/dashboard", want: guard.Render},
		{name: "manager on recommendations deep link", role: api.RoleManager, path: "/manager/jds/42", want: guard.Render},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := guard.Resolve(tt.path, authenticated(tt.role))
			assert.Equal(t, tt.want, decision.Kind)
		})
	}
}

// The dashboard redirect must fire only on the exact login path. Dashboards
// are also reached through deep links, and redirecting away from those would
// loop forever.
func TestLoginPathRedirect(t *testing.T) {
	decision := guard.Resolve(guard.LoginPath, authenticated(api.RoleManager))
	require.Equal(t, guard.RedirectDashboard, decision.Kind)
	assert.Equal(t, guard.ManagerDashboardPath, decision.Target)

	decision = guard.Resolve(guard.LoginPath, authenticated(api.RoleEmployee))
	require.Equal(t, guard.RedirectDashboard, decision.Kind)
	assert.Equal(t, guard.EmployeeDashboardPath, decision.Target)

	// Not on the login path: no redirect, even though authenticated.
	for _, path := range []string{"/manager/dashboard", "/manager/jds/42", "/employee/dashboard"} {
		decision := guard.Resolve(path, authenticated(api.RoleManager))
		assert.NotEqual(t, guard.RedirectDashboard, decision.Kind, "path %s", path)
	}

	// Unauthenticated sessions render the login page.
	decision = guard.Resolve(guard.LoginPath, anonymous())
	assert.Equal(t, guard.Render, decision.Kind)
}

func TestRootPath(t *testing.T) {
	decision := guard.Resolve("/", authenticated(api.RoleEmployee))
	require.Equal(t, guard.RedirectDashboard, decision.Kind)
	assert.Equal(t, guard.EmployeeDashboardPath, decision.Target)

	decision = guard.Resolve("/", anonymous())
	assert.Equal(t, guard.RedirectLogin, decision.Kind)
}

func TestExpiredCredentialCountsAsUnauthenticated(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user@company.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	sToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	expired := session.Session{Credential: sToken, Role: api.RoleManager}
	decision := guard.Resolve("/manager/dashboard", expired)
	assert.Equal(t, guard.RedirectLogin, decision.Kind)
}

func TestPublicRoutesRender(t *testing.T) {
	for _, path := range []string{"/unauthorized", "/not-found"} {
		decision := guard.Resolve(path, anonymous())
		assert.Equal(t, guard.Render, decision.Kind, "path %s", path)
	}
}
