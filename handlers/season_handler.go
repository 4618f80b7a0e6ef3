package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/league-system/services"
)

type SeasonHandler struct {
	seasonService services.SeasonService
	rosterService services.SeasonRosterService
	copyWindow    time.Duration
}

func NewSeasonHandler(seasonService services.SeasonService, rosterService services.SeasonRosterService, copyWindow time.Duration) *SeasonHandler {
	return &SeasonHandler{
		seasonService: seasonService,
		rosterService: rosterService,
		copyWindow:    copyWindow,
	}
}

// CreateSeason godoc
// @Summary Create a season
// @Tags seasons
// @Accept json
// @Produce json
// @Param body body services.SeasonInput true "Season"
// @Success 201 {object} map[string]interface{} "Season created"
// @Failure 400 {object} map[string]string "Invalid dates or teams"
// @Failure 409 {object} map[string]string "Season already exists"
// @Security BearerAuth
// @Router /api/v1/seasons [post]
func (h *SeasonHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var input services.SeasonInput
	if !readInput(w, r, &input) {
		return
	}

	season, err := h.seasonService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"season": season})
}

func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	leagueID, err := queryInt(r, "league_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seasons, err := h.seasonService.List(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"seasons": seasons})
}

func (h *SeasonHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season, err := h.seasonService.Get(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"season": season})
}

func (h *SeasonHandler) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SeasonInput
	if !readInput(w, r, &input) {
		return
	}

	season, err := h.seasonService.Update(r.Context(), seasonID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"season": season})
}

func (h *SeasonHandler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seasonService.Delete(r.Context(), seasonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CopyExpiring godoc
// @Summary Copy expiring seasons one year forward
// @Tags seasons
// @Produce json
// @Param window query string false "How far ahead to look, as a Go duration (default from config)"
// @Success 200 {object} services.SeasonCopyResult
// @Security BearerAuth
// @Router /admin/seasons/copy-expiring [post]
func (h *SeasonHandler) CopyExpiring(w http.ResponseWriter, r *http.Request) {
	window := h.copyWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			badRequestResponse(w, r, fmt.Errorf("window must be a positive duration such as 720h, got %q", raw))
			return
		}
		window = d
	}

	result, err := h.seasonService.CopyExpiring(r.Context(), time.Now(), window)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"result": result})
}

// CreateRoster godoc
// @Summary Create a season roster
// @Tags rosters
// @Accept json
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param body body services.SeasonRosterInput true "Roster"
// @Success 201 {object} map[string]interface{} "Roster created"
// @Failure 400 {object} map[string]string "Roster violates a rule"
// @Failure 403 {object} map[string]string "Not a manager or coach of the team"
// @Security BearerAuth
// @Router /api/v1/seasons/{seasonID}/rosters [post]
func (h *SeasonHandler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SeasonRosterInput
	if !readInput(w, r, &input) {
		return
	}
	input.SeasonID = seasonID

	roster, err := h.rosterService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"roster": roster})
}

func (h *SeasonHandler) ListRosters(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rosters, err := h.rosterService.List(r.Context(), seasonID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"rosters": rosters})
}

func (h *SeasonHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	rosterID, err := getIDFromURL(r, "rosterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.rosterService.Get(r.Context(), rosterID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"roster": roster})
}

func (h *SeasonHandler) UpdateRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	rosterID, err := getIDFromURL(r, "rosterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SeasonRosterInput
	if !readInput(w, r, &input) {
		return
	}
	input.SeasonID = seasonID

	roster, err := h.rosterService.Update(r.Context(), actor, rosterID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"roster": roster})
}

func (h *SeasonHandler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	rosterID, err := getIDFromURL(r, "rosterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.Delete(r.Context(), actor, rosterID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
