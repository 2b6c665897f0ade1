// Package guard decides, per navigation, whether a route is reachable given
// the current session state and role.
package guard

import (
	"strings"
	"time"

	"github.com/thoas/go-funk"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/session"
)

const (
	LoginPath             = "/auth"
	UnauthorizedPath      = "/unauthorized"
	EmployeeDashboardPath = "/employee/dashboard"
	ManagerDashboardPath  = "/manager/dashboard"
)

type DecisionKind string

const (
	// Render means the requested route is reachable as-is.
	Render DecisionKind = "render"
	// RedirectLogin means the session must authenticate first.
	RedirectLogin DecisionKind = "redirect-login"
	// RedirectUnauthorized means the role is not allowed on this route.
	RedirectUnauthorized DecisionKind = "redirect-unauthorized"
	// RedirectDashboard sends an already-authenticated session from the
	// login path to its role dashboard.
	RedirectDashboard DecisionKind = "redirect-dashboard"
)

type Decision struct {
	Kind   DecisionKind
	Target string
}

// protectedRoutes maps route prefixes to the roles allowed under them.
var protectedRoutes = []struct {
	prefix string
	roles  []api.Role
}{
	{prefix: "/employee/", roles: []api.Role{api.RoleEmployee}},
	{prefix: "/manager/", roles: []api.Role{api.RoleManager}},
}

// DashboardFor returns the dashboard path for a role.
func DashboardFor(role api.Role) string {
	if role == api.RoleManager {
		return ManagerDashboardPath
	}
	return EmployeeDashboardPath
}

// Resolve runs the navigation gates for the requested path.
//
// The login-path redirect fires only when the current path is exactly the
// login path. Dashboards are also reached through deep links under
// /manager/... and /employee/..., and redirecting away from those would loop.
func Resolve(currentPath string, sess session.Session) Decision {
	authenticated := sess.IsAuthenticated() && !sess.Expired(time.Now())

	if currentPath == "/" {
		if authenticated {
			return Decision{Kind: RedirectDashboard, Target: DashboardFor(sess.Role)}
		}
		return Decision{Kind: RedirectLogin, Target: LoginPath}
	}

	if currentPath == LoginPath {
		if authenticated {
			return Decision{Kind: RedirectDashboard, Target: DashboardFor(sess.Role)}
		}
		return Decision{Kind: Render}
	}

	for _, route := range protectedRoutes {
		if !strings.HasPrefix(currentPath, route.prefix) {
			continue
		}
		if !authenticated {
			return Decision{Kind: RedirectLogin, Target: LoginPath}
		}
		if !funk.Contains(route.roles, sess.Role) {
			return Decision{Kind: RedirectUnauthorized, Target: UnauthorizedPath}
		}
		return Decision{Kind: Render}
	}

	return Decision{Kind: Render}
}
