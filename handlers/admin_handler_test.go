package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/Dosada05/league-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBulkUploadService struct {
	leagueID    int
	contentType string
	body        string
	result      *services.BulkUploadResult
	err         error
}

func (f *fakeBulkUploadService) UploadTeams(_ context.Context, leagueID int, contentType string, r io.Reader) (*services.BulkUploadResult, error) {
	f.leagueID = leagueID
	return f.capture(contentType, r)
}

func (f *fakeBulkUploadService) UploadLocations(_ context.Context, contentType string, r io.Reader) (*services.BulkUploadResult, error) {
	return f.capture(contentType, r)
}

func (f *fakeBulkUploadService) capture(contentType string, r io.Reader) (*services.BulkUploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.contentType = contentType
	f.body = string(data)
	return f.result, f.err
}

func csvUploadRequest(t *testing.T, target, contents string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="teams.csv"`)
	header.Set("Content-Type", "text/csv")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = io.WriteString(part, contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminHandler_UploadTeams(t *testing.T) {
	svc := &fakeBulkUploadService{result: &services.BulkUploadResult{UploadID: "u-1", Created: 2}}
	h := NewAdminHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.UploadTeams(rec, csvUploadRequest(t, "/admin/bulk-upload/teams?league_id=3", "name,division\nSharks,Gold\nJets,Gold\n"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, svc.leagueID)
	assert.Equal(t, "text/csv", svc.contentType)
	assert.Contains(t, svc.body, "Sharks,Gold")
	result, ok := decodeBody(t, rec)["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), result["created"])
}

func TestAdminHandler_UploadTeamsNeedsLeague(t *testing.T) {
	svc := &fakeBulkUploadService{}
	h := NewAdminHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.UploadTeams(rec, csvUploadRequest(t, "/admin/bulk-upload/teams", "name,division\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.body, "service is not called")
}

func TestAdminHandler_UploadReportsRowErrors(t *testing.T) {
	svc := &fakeBulkUploadService{
		result: &services.BulkUploadResult{
			UploadID: "u-2",
			Errors:   []services.RowError{{Row: 3, Message: "name is required"}},
		},
		err: services.ErrUploadRows,
	}
	h := NewAdminHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.UploadLocations(rec, csvUploadRequest(t, "/admin/bulk-upload/locations", "name\nRink\n,\n"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body, ok := decodeBody(t, rec)["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u-2", body["upload_id"])
	rows, ok := body["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(3), rows[0].(map[string]interface{})["row"])
}

func TestAdminHandler_UploadRejectsNonCSV(t *testing.T) {
	svc := &fakeBulkUploadService{err: services.ErrUploadContentType}
	h := NewAdminHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.UploadLocations(rec, csvUploadRequest(t, "/admin/bulk-upload/locations", "x"))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
