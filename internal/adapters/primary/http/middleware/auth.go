package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/scan-relay/internal/auth"
	"github.com/lorrc/scan-relay/internal/infrastructure/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ViewerClaimsKey is the key used to store viewer claims in the request context.
const ViewerClaimsKey contextKey = "viewerClaims"

// APIKeyHeader carries the shared secret of scanning devices.
const APIKeyHeader = "X-API-KEY"

// APIKey rejects requests whose X-API-KEY header does not match the
// configured secret. The body is never read for rejected requests. A
// disabled verifier lets everything through.
func APIKey(verifier *auth.APIKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !verifier.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !verifier.Verify(r.Header.Get(APIKeyHeader)) {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ViewerToken validates a viewer JWT taken from the Authorization header or,
// because browsers cannot set headers on websocket upgrades, from the token
// query parameter. A nil manager disables the check.
func ViewerToken(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tm == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "Viewer token is required", "UNAUTHORIZED")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
				return
			}

			ctx := context.WithValue(r.Context(), ViewerClaimsKey, claims)
			ctx = logging.WithViewerID(ctx, claims.ViewerID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerClaims returns the claims stored by ViewerToken, if any.
func GetViewerClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ViewerClaimsKey).(*auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
