package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/services"
)

// RegistrationChecker reports how far a user got through signing up.
type RegistrationChecker interface {
	RegistrationStatus(ctx context.Context, userID int) (*services.RegistrationStatus, error)
}

// RequireCompleteRegistration redirects authenticated users with a missing profile or an
// incomplete sport registration to redirectPath. Paths under any exempt prefix pass through.
func RequireCompleteRegistration(checker RegistrationChecker, redirectPath string, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == redirectPath || hasAnyPrefix(r.URL.Path, exempt) {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := GetUserIDFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			status, err := checker.RegistrationStatus(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "registration status check failed", slog.Int("user_id", userID), slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
				return
			}
			if !status.Complete {
				http.Redirect(w, r, redirectPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
