package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	bulkUploadService services.BulkUploadService
	switchService     services.SwitchService
}

func NewAdminHandler(bulkUploadService services.BulkUploadService, switchService services.SwitchService) *AdminHandler {
	return &AdminHandler{
		bulkUploadService: bulkUploadService,
		switchService:     switchService,
	}
}

type switchInput struct {
	Active *bool `json:"active" validate:"required"`
}

// uploadResponse answers a bulk upload. Row errors come back as 400 with the per-row report.
func uploadResponse(w http.ResponseWriter, r *http.Request, result *services.BulkUploadResult, err error) {
	if err != nil {
		if errors.Is(err, services.ErrUploadRows) && result != nil {
			errorResponse(w, r, http.StatusBadRequest, jsonResponse{
				"message":   err.Error(),
				"upload_id": result.UploadID,
				"rows":      result.Errors,
			})
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"result": result})
}

// UploadTeams godoc
// @Summary Bulk upload teams from CSV
// @Description Columns: name, division, website, organization_id, is_active. Divisions are resolved by name within the league. All rows are inserted in one transaction.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param league_id query int true "League whose divisions the rows reference"
// @Param file formData file true "CSV file"
// @Success 201 {object} map[string]interface{} "Upload result"
// @Failure 400 {object} map[string]interface{} "Row errors"
// @Failure 415 {object} map[string]string "Not a CSV file"
// @Security BearerAuth
// @Router /admin/bulk-upload/teams [post]
func (h *AdminHandler) UploadTeams(w http.ResponseWriter, r *http.Request) {
	leagueID, err := queryInt(r, "league_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if leagueID == 0 {
		badRequestResponse(w, r, errors.New("query parameter league_id is required"))
		return
	}

	file, contentType, ok := readUpload(w, r, "file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.bulkUploadService.UploadTeams(r.Context(), leagueID, contentType, file)
	uploadResponse(w, r, result, err)
}

// UploadLocations godoc
// @Summary Bulk upload locations from CSV
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 201 {object} map[string]interface{} "Upload result"
// @Failure 400 {object} map[string]interface{} "Row errors"
// @Failure 415 {object} map[string]string "Not a CSV file"
// @Security BearerAuth
// @Router /admin/bulk-upload/locations [post]
func (h *AdminHandler) UploadLocations(w http.ResponseWriter, r *http.Request) {
	file, contentType, ok := readUpload(w, r, "file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.bulkUploadService.UploadLocations(r.Context(), contentType, file)
	uploadResponse(w, r, result, err)
}

func (h *AdminHandler) ListSwitches(w http.ResponseWriter, r *http.Request) {
	switches, err := h.switchService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"switches": switches})
}

func (h *AdminHandler) SetSwitch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		badRequestResponse(w, r, fmt.Errorf("missing switch name in URL path"))
		return
	}
	var input switchInput
	if !readInput(w, r, &input) {
		return
	}

	sw, err := h.switchService.Set(r.Context(), name, *input.Active)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"switch": sw})
}
