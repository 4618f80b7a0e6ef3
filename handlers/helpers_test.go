package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrTeamNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", services.ErrGameNotFound), http.StatusNotFound},
		{services.ErrTeamNameConflict, http.StatusConflict},
		{services.ErrRosterDefaultConflict, http.StatusConflict},
		{services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrFeatureDisabled, http.StatusForbidden},
		{services.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{services.ErrUploadContentType, http.StatusUnsupportedMediaType},
		{services.ErrLastRole, http.StatusBadRequest},
		{fmt.Errorf("%w: Referee", services.ErrRoleNotRegistered), http.StatusBadRequest},
		{models.ErrUnknownRole, http.StatusBadRequest},
		{services.ErrStartingGoalieMissing, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
		wantKeys []string
	}{
		{name: "valid", body: `{"sport_id": 1, "roles": ["Player", "coach"]}`, wantOK: true},
		{name: "unknown field", body: `{"sport_id": 1, "roles": ["Player"], "x": 1}`, wantCode: http.StatusBadRequest},
		{name: "malformed", body: `{"sport_id": 1,`, wantCode: http.StatusBadRequest},
		{name: "two values", body: `{"sport_id": 1, "roles": ["Player"]}{}`, wantCode: http.StatusBadRequest},
		{name: "missing fields", body: `{}`, wantCode: http.StatusUnprocessableEntity, wantKeys: []string{"sport_id", "roles"}},
		{name: "bad role", body: `{"sport_id": 1, "roles": ["Goalie"]}`, wantCode: http.StatusUnprocessableEntity, wantKeys: []string{"roles[0]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var input services.RegistrationInput
			ok := readInput(rec, req, &input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCode, rec.Code)
			if len(tt.wantKeys) > 0 {
				body := decodeBody(t, rec)
				fields, isMap := body["error"].(map[string]interface{})
				require.True(t, isMap, "field errors are an object")
				for _, key := range tt.wantKeys {
					assert.Contains(t, fields, key)
				}
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?league_id=4&bad=x&neg=-1", nil)

	v, err := queryInt(req, "league_id")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = queryInt(req, "missing")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = queryInt(req, "bad")
	assert.Error(t, err)
	_, err = queryInt(req, "neg")
	assert.Error(t, err)
}
