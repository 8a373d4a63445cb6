package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Authenticator resolves an access token to the calling user and session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (tenancy.Caller, error)
}

// Auth creates middleware that authenticates the request and stores the
// tenancy.Caller in its context. Checks the Authorization header first,
// then falls back to the access token cookie for web clients.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if token, ok := httputil.GetAccessTokenFromCookie(r); ok {
					tokenString = token
				}
			}

			if tokenString == "" {
				RecordAuthFailure("missing_token")
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			caller, err := authenticator.Authenticate(r.Context(), tokenString)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidToken),
					errors.Is(err, domain.ErrSessionExpired),
					errors.Is(err, domain.ErrSessionRevoked):
					RecordAuthFailure("invalid_token")
					httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				default:
					httputil.WriteError(w, r, err)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(tenancy.WithCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
