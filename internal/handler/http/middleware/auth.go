package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired must run after jwtauth.Verifier. It rejects requests without
// a valid, unrevoked access token.
func AuthRequired(svc jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.Unauthorized(w, "Missing or invalid bearer token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.Unauthorized(w, "Missing or invalid bearer token")
				return
			}

			if svc.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
