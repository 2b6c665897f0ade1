package cli_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/cli"
	"github.com/intellirefer/referctl/internal/guard"
	"github.com/intellirefer/referctl/internal/session"
)

func authServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		request := api.LoginRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		if request.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "bad credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(api.AuthResponse{AccessToken: "token-123", Role: api.RoleManager})
	}))
}

func TestLoginStoresCredentialAndOpensDashboard(t *testing.T) {
	server := authServer(t)
	defer server.Close()

	configDir := t.TempDir()
	o := &cli.LoginOptions{
		GlobalOptions: cli.GlobalOptions{ServerUrl: server.URL, ConfigDir: configDir},
		Email:         "manager@company.com",
		Password:      "secret",
	}
	require.NoError(t, o.Validate(nil))
	require.NoError(t, o.Run(context.Background(), nil))

	// The credential survives a reload and the guard now opens the dashboard.
	store, err := session.Load(session.DefaultSessionPath(configDir))
	require.NoError(t, err)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, api.RoleManager, store.Get().Role)

	decision := guard.Resolve(guard.ManagerDashboardPath, store.Get())
	assert.Equal(t, guard.Render, decision.Kind)
}

func TestLoginFailureStoresNothing(t *testing.T) {
	server := authServer(t)
	defer server.Close()

	configDir := t.TempDir()
	o := &cli.LoginOptions{
		GlobalOptions: cli.GlobalOptions{ServerUrl: server.URL, ConfigDir: configDir},
		Email:         "manager@company.com",
		Password:      "wrong",
	}
	err := o.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")

	// No credential stored, navigation still gated.
	store, err := session.Load(session.DefaultSessionPath(configDir))
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())

	decision := guard.Resolve(guard.ManagerDashboardPath, store.Get())
	assert.Equal(t, guard.RedirectLogin, decision.Kind)
}

func TestLoginValidationFailsBeforeAnyRequest(t *testing.T) {
	requestSeen := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestSeen = true
	}))
	defer server.Close()

	o := &cli.LoginOptions{
		GlobalOptions: cli.GlobalOptions{ServerUrl: server.URL, ConfigDir: t.TempDir()},
		Email:         "not-an-email",
		Password:      "",
	}
	err := o.Validate(nil)
	require.Error(t, err)
	assert.False(t, requestSeen)
}

func TestLoginOnAuthenticatedSessionRedirectsToDashboard(t *testing.T) {
	requestSeen := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestSeen = true
	}))
	defer server.Close()

	configDir := t.TempDir()
	store := session.NewStore(session.DefaultSessionPath(configDir))
	require.NoError(t, store.Set("token-123", api.RoleEmployee))

	o := &cli.LoginOptions{
		GlobalOptions: cli.GlobalOptions{ServerUrl: server.URL, ConfigDir: configDir},
		Email:         "employee@company.com",
		Password:      "secret",
	}
	require.NoError(t, o.Run(context.Background(), nil))

	// Already authenticated on the login path: no request, session untouched.
	assert.False(t, requestSeen)
	reloaded, err := session.Load(session.DefaultSessionPath(configDir))
	require.NoError(t, err)
	assert.Equal(t, "token-123", reloaded.Credential())
}
