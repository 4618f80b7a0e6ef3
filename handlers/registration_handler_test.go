package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeRegistrationRepo struct {
	repositories.RegistrationRepository
	regs map[int]*models.SportRegistration
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.SportRegistration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetForUpdate(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.SportRegistration, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRegistrationRepo) UpdateRoles(_ context.Context, _ repositories.SQLExecutor, id int, mask models.RolesMask, complete bool) error {
	r.regs[id].RolesMask = mask
	r.regs[id].IsComplete = complete
	return nil
}

type fakeRoleRepo struct {
	repositories.RoleRepository
	deactivated []models.Role
}

func (r *fakeRoleRepo) CountActive(context.Context, models.Role, models.RoleFilter) (int, error) {
	return 1, nil
}

func (r *fakeRoleRepo) DeactivateForUserSport(_ context.Context, _ repositories.SQLExecutor, role models.Role, _, _ int) (int64, error) {
	r.deactivated = append(r.deactivated, role)
	return 1, nil
}

func asUser(userID int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.MapClaims{services.ClaimUserID: float64(userID)}
		next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
	})
}

func newRegistrationRouter(t *testing.T, userID int, roles ...models.Role) (http.Handler, *fakeRegistrationRepo, *fakeRoleRepo) {
	t.Helper()
	mask, err := models.MaskFor(roles...)
	require.NoError(t, err)

	regs := &fakeRegistrationRepo{regs: map[int]*models.SportRegistration{
		7: {ID: 7, UserID: 42, SportID: 1, RolesMask: mask, IsComplete: true},
	}}
	roleRepo := &fakeRoleRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewSportRegistrationHandler(services.NewRegistrationService(regs, roleRepo, fakeTx{}, logger))

	router := chi.NewRouter()
	router.Patch("/api/v1/sportregistrations/{registrationID}/remove-role/{role}", h.RemoveRole)
	return asUser(userID, router), regs, roleRepo
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRemoveRole_OnlyRoleIsRejected(t *testing.T) {
	router, regs, roleRepo := newRegistrationRouter(t, 42, models.RolePlayer)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sportregistrations/7/remove-role/Player", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "only have one role")
	assert.NotContains(t, body, "detail")
	assert.Empty(t, roleRepo.deactivated)
	assert.True(t, regs.regs[7].RolesMask.Has(models.RolePlayer))
}

func TestRemoveRole_Success(t *testing.T) {
	router, regs, roleRepo := newRegistrationRouter(t, 42, models.RolePlayer, models.RoleCoach)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sportregistrations/7/remove-role/coach", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"detail": "Coach role removed"}, decodeBody(t, rec))
	assert.Equal(t, []models.Role{models.RoleCoach}, roleRepo.deactivated)
	assert.Equal(t, []models.Role{models.RolePlayer}, regs.regs[7].Roles())
}

func TestRemoveRole_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   int
		path     string
		wantCode int
	}{
		{name: "role not registered", userID: 42, path: "/api/v1/sportregistrations/7/remove-role/Referee", wantCode: http.StatusBadRequest},
		{name: "unknown role", userID: 42, path: "/api/v1/sportregistrations/7/remove-role/Goalie", wantCode: http.StatusBadRequest},
		{name: "another user's registration", userID: 5, path: "/api/v1/sportregistrations/7/remove-role/Coach", wantCode: http.StatusForbidden},
		{name: "unknown registration", userID: 42, path: "/api/v1/sportregistrations/99/remove-role/Coach", wantCode: http.StatusNotFound},
		{name: "bad id", userID: 42, path: "/api/v1/sportregistrations/abc/remove-role/Coach", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, roleRepo := newRegistrationRouter(t, tt.userID, models.RolePlayer, models.RoleCoach)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "error")
			assert.Empty(t, roleRepo.deactivated)
		})
	}
}
