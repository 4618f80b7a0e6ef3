package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeTokens map[string]*models.User

func (f fakeTokens) UserForToken(_ context.Context, key string) (*models.User, error) {
	if u, ok := f[key]; ok && u.IsActive {
		return u, nil
	}
	return nil, errors.New("no such token")
}

func (f fakeTokens) GetUser(_ context.Context, id int) (*models.User, error) {
	for _, u := range f {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func actorEcho(t *testing.T, got *services.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		require.NoError(t, err)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	tokens := fakeTokens{
		"abc123": {ID: 9, IsStaff: true, IsActive: true},
		"def456": {ID: 4, IsActive: true},
		"ghi789": {ID: 5, IsActive: false},
		"jkl012": {ID: 6, IsStaff: true, IsActive: true},
	}
	bearer := func(userID int, staff bool, ttl time.Duration) string {
		return signed(t, jwt.MapClaims{
			services.ClaimUserID: userID,
			services.ClaimStaff:  staff,
			"exp":                time.Now().Add(ttl).Unix(),
		})
	}
	valid := bearer(4, false, time.Hour)
	expired := bearer(4, false, -time.Hour)

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantActor services.Actor
	}{
		{name: "bearer jwt", header: "Bearer " + valid, wantCode: http.StatusNoContent, wantActor: services.Actor{UserID: 4}},
		{name: "api token", header: "Token abc123", wantCode: http.StatusNoContent, wantActor: services.Actor{UserID: 9, IsStaff: true}},
		{name: "expired jwt", header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "jwt of deactivated user", header: "Bearer " + bearer(5, false, time.Hour), wantCode: http.StatusUnauthorized},
		{name: "jwt of deleted user", header: "Bearer " + bearer(77, false, time.Hour), wantCode: http.StatusUnauthorized},
		{name: "jwt staff flag follows the account", header: "Bearer " + bearer(6, false, time.Hour), wantCode: http.StatusNoContent, wantActor: services.Actor{UserID: 6, IsStaff: true}},
		{name: "api token of deactivated user", header: "Token ghi789", wantCode: http.StatusUnauthorized},
		{name: "unknown token", header: "Token nope", wantCode: http.StatusUnauthorized},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got services.Actor
			h := Authenticate(testSecret, tokens)(actorEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/sports", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantActor, got)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin/switches", nil)
	rec := httptest.NewRecorder()
	RequireStaff(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithClaims(req.Context(), jwt.MapClaims{services.ClaimUserID: float64(3)}))
	rec = httptest.NewRecorder()
	RequireStaff(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(WithClaims(req.Context(), jwt.MapClaims{services.ClaimUserID: float64(3), services.ClaimStaff: true}))
	rec = httptest.NewRecorder()
	RequireStaff(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeProfiles map[int]*models.UserProfile

func (f fakeProfiles) GetProfile(_ context.Context, userID int) (*models.UserProfile, error) {
	if p, ok := f[userID]; ok {
		return p, nil
	}
	return nil, services.ErrProfileNotFound
}

func TestWithLocale(t *testing.T) {
	profiles := fakeProfiles{1: {UserID: 1, Language: "de", Timezone: "Europe/Berlin"}}
	var got Locale
	h := WithLocale("en", "America/New_York", profiles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	t.Run("defaults", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "en", rec.Header().Get("Content-Language"))
		assert.Equal(t, "America/New_York", got.Location.String())
	})

	t.Run("accept-language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "fr", rec.Header().Get("Content-Language"))
	})

	t.Run("profile wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "fr")
		req = req.WithContext(WithClaims(req.Context(), jwt.MapClaims{services.ClaimUserID: float64(1)}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "de", rec.Header().Get("Content-Language"))
		assert.Equal(t, "Europe/Berlin", got.Location.String())
	})
}

type fakeChecker map[int]bool

func (f fakeChecker) RegistrationStatus(_ context.Context, userID int) (*services.RegistrationStatus, error) {
	return &services.RegistrationStatus{Complete: f[userID]}, nil
}

func TestRequireCompleteRegistration(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireCompleteRegistration(fakeChecker{1: true, 2: false}, "/api/v1/account/status", "/api/v1/account/", "/auth/")(ok)

	tests := []struct {
		name     string
		path     string
		userID   int
		wantCode int
	}{
		{name: "complete user", path: "/api/v1/teams", userID: 1, wantCode: http.StatusOK},
		{name: "incomplete user", path: "/api/v1/teams", userID: 2, wantCode: http.StatusFound},
		{name: "incomplete user on exempt path", path: "/api/v1/account/profile", userID: 2, wantCode: http.StatusOK},
		{name: "anonymous", path: "/api/v1/teams", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.userID != 0 {
				req = req.WithContext(WithClaims(req.Context(), jwt.MapClaims{services.ClaimUserID: float64(tt.userID)}))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusFound {
				assert.Equal(t, "/api/v1/account/status", rec.Header().Get("Location"))
			}
		})
	}
}
