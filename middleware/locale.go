package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/league-system/models"
	"golang.org/x/text/language"
)

// ProfileGetter loads the display preferences of a user.
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
}

// Locale is the language and time zone activated for a request.
type Locale struct {
	Language language.Tag
	Location *time.Location
}

var supportedLanguages = []language.Tag{
	language.English,
	language.French,
	language.Spanish,
	language.German,
}

// LocaleFromContext returns the request locale, or English/UTC when Locale did not run.
func LocaleFromContext(ctx context.Context) Locale {
	if loc, ok := ctx.Value(localeContextKey).(Locale); ok {
		return loc
	}
	return Locale{Language: language.English, Location: time.UTC}
}

// WithLocale activates the language and time zone of the request.
// Profile preferences win, then Accept-Language, then the defaults.
func WithLocale(defaultLang, defaultTZ string, profiles ProfileGetter) func(http.Handler) http.Handler {
	matcher := language.NewMatcher(supportedLanguages)
	fallbackLang, err := language.Parse(defaultLang)
	if err != nil {
		fallbackLang = language.English
	}
	fallbackTZ, err := time.LoadLocation(defaultTZ)
	if err != nil {
		fallbackTZ = time.UTC
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := Locale{Language: fallbackLang, Location: fallbackTZ}

			if accept := r.Header.Get("Accept-Language"); accept != "" {
				tags, _, err := language.ParseAcceptLanguage(accept)
				if err == nil && len(tags) > 0 {
					_, idx, confidence := matcher.Match(tags...)
					if confidence != language.No {
						loc.Language = supportedLanguages[idx]
					}
				}
			}

			if userID, err := GetUserIDFromContext(r.Context()); err == nil && profiles != nil {
				profile, err := profiles.GetProfile(r.Context(), userID)
				if err == nil {
					if tag, err := language.Parse(profile.Language); err == nil && profile.Language != "" {
						loc.Language = tag
					}
					if tz, err := time.LoadLocation(profile.Timezone); err == nil && profile.Timezone != "" {
						loc.Location = tz
					}
				} else {
					slog.DebugContext(r.Context(), "profile not loaded for locale", slog.Int("user_id", userID), slog.Any("error", err))
				}
			}

			w.Header().Set("Content-Language", loc.Language.String())
			ctx := context.WithValue(r.Context(), localeContextKey, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
