package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(leagueService services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

// CreateLeague godoc
// @Summary Create a league
// @Tags leagues
// @Accept json
// @Produce json
// @Param body body services.LeagueInput true "League"
// @Success 201 {object} map[string]interface{} "League created"
// @Failure 409 {object} map[string]string "Name already taken"
// @Security BearerAuth
// @Router /api/v1/leagues [post]
func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var input services.LeagueInput
	if !readInput(w, r, &input) {
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"league": league})
}

// ListLeagues godoc
// @Summary List leagues
// @Tags leagues
// @Produce json
// @Param sport_id query int false "Only leagues of this sport"
// @Success 200 {object} map[string]interface{} "Leagues"
// @Router /api/v1/leagues [get]
func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	sportID, err := queryInt(r, "sport_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leagues, err := h.leagueService.ListLeagues(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"leagues": leagues})
}

func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"league": league})
}

func (h *LeagueHandler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.LeagueInput
	if !readInput(w, r, &input) {
		return
	}

	league, err := h.leagueService.UpdateLeague(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"league": league})
}

func (h *LeagueHandler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leagueService.DeleteLeague(r.Context(), leagueID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary Upload a league logo
// @Tags leagues
// @Accept multipart/form-data
// @Produce json
// @Param leagueID path int true "League ID"
// @Param logo formData file true "Logo image"
// @Success 200 {object} map[string]interface{} "League with logo"
// @Failure 415 {object} map[string]string "Unsupported image type"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Security BearerAuth
// @Router /api/v1/leagues/{leagueID}/logo [put]
func (h *LeagueHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ok := readUpload(w, r, "logo")
	if !ok {
		return
	}
	defer file.Close()

	league, err := h.leagueService.UploadLogo(r.Context(), leagueID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"league": league})
}

func (h *LeagueHandler) CreateDivision(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.DivisionInput
	if !readInput(w, r, &input) {
		return
	}

	division, err := h.leagueService.CreateDivision(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"division": division})
}

func (h *LeagueHandler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	divisions, err := h.leagueService.ListDivisions(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"divisions": divisions})
}

func (h *LeagueHandler) DeleteDivision(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leagueService.DeleteDivision(r.Context(), divisionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
