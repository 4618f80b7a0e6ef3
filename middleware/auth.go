package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/golang-jwt/jwt/v4"
)

// TokenResolver finds the user behind a credential. UserForToken must reject inactive users.
type TokenResolver interface {
	UserForToken(ctx context.Context, key string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// Authenticate accepts "Authorization: Bearer <jwt>" or "Authorization: Token <key>"
// and stores the user's claims in the request context.
func Authenticate(jwtSecret string, tokens TokenResolver) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, credential, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			credential = strings.TrimSpace(credential)
			if !ok || credential == "" {
				unauthorized(w, "authentication credentials were not provided")
				return
			}

			var claims jwt.MapClaims
			switch strings.ToLower(scheme) {
			case "bearer":
				parsed, err := parseJWT(secret, credential)
				if err != nil {
					slog.DebugContext(r.Context(), "rejected jwt", slog.Any("error", err))
					unauthorized(w, "invalid or expired token")
					return
				}
				userID, err := GetUserIDFromContext(WithClaims(r.Context(), parsed))
				if err != nil {
					unauthorized(w, "invalid token claims")
					return
				}
				// A signed token outlives account changes, so the account is checked on every request.
				user, err := tokens.GetUser(r.Context(), userID)
				if err != nil || !user.IsActive {
					unauthorized(w, "user account is disabled or no longer exists")
					return
				}
				parsed[services.ClaimStaff] = user.IsStaff
				claims = parsed
			case "token":
				user, err := tokens.UserForToken(r.Context(), credential)
				if err != nil {
					unauthorized(w, "invalid token")
					return
				}
				claims = jwt.MapClaims{
					services.ClaimUserID: float64(user.ID),
					services.ClaimStaff:  user.IsStaff,
				}
			default:
				unauthorized(w, "unsupported authorization scheme")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func parseJWT(secret []byte, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RequireStaff rejects authenticated users without the staff flag.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			unauthorized(w, "authentication credentials were not provided")
			return
		}
		if !IsStaffFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api", Token`)
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{%q: %q}\n", "error", message)
}
