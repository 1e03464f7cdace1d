package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vaultpass/passgen-go/internal/token"
)

type contextKey string

const widgetIDKey contextKey = "widgetID"

// WidgetAuth returns middleware that requires a token for the widget named by
// the {param} URL parameter. The token comes from a Bearer Authorization
// header or, for websocket upgrades that cannot set headers, a "token" query
// parameter.
func WidgetAuth(secret, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := tokenFromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			claims, err := token.Validate(raw, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if claims.WidgetID != chi.URLParam(r, param) {
				writeJSONError(w, http.StatusForbidden, "token does not grant access to this widget")
				return
			}

			ctx := context.WithValue(r.Context(), widgetIDKey, claims.WidgetID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tok, found := strings.CutPrefix(authHeader, "Bearer ")
		return tok, found && tok != ""
	}
	tok := r.URL.Query().Get("token")
	return tok, tok != ""
}

// WidgetIDFromContext extracts the authenticated widget ID from the request context.
func WidgetIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(widgetIDKey).(string)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
