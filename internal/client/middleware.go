package client

import (
	"context"
	"fmt"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/intellirefer/referctl/internal/session"
	"github.com/intellirefer/referctl/pkg/requestid"
)

// RequestEditorFn is run on every outgoing request before transmission.
// Editors are composed at client construction time; nothing mutates a shared
// default transport.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// BearerEditor attaches the session credential as a bearer authorization
// header. Requests proceed unmodified when the store holds no credential.
// This is the sole point of credential injection; call sites never set the
// header themselves. It does not react to 401/403, that is left to callers.
func BearerEditor(store *session.Store) RequestEditorFn {
	return func(ctx context.Context, req *http.Request) error {
		if credential := store.Credential(); credential != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", credential))
		}
		return nil
	}
}

// RequestIDEditor tags every request with an X-Request-Id header.
func RequestIDEditor() RequestEditorFn {
	return func(ctx context.Context, req *http.Request) error {
		req.Header.Set(chimiddleware.RequestIDHeader, requestid.FromContext(ctx))
		return nil
	}
}
