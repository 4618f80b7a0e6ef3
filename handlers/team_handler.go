package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam godoc
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Param body body services.TeamInput true "Team"
// @Success 201 {object} map[string]interface{} "Team created"
// @Failure 409 {object} map[string]string "Name already taken in the division"
// @Security BearerAuth
// @Router /api/v1/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.TeamInput
	if !readInput(w, r, &input) {
		return
	}

	team, err := h.teamService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"team": team})
}

// ListTeams godoc
// @Summary List teams
// @Tags teams
// @Produce json
// @Param league_id query int false "League filter"
// @Param division_id query int false "Division filter"
// @Param organization_id query int false "Organization filter"
// @Param active query bool false "Only active teams"
// @Success 200 {object} map[string]interface{} "Teams"
// @Router /api/v1/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	var filter repositories.TeamFilter
	var err error
	if filter.LeagueID, err = queryInt(r, "league_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.DivisionID, err = queryInt(r, "division_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.OrganizationID, err = queryInt(r, "organization_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.ActiveOnly = r.URL.Query().Get("active") == "true"

	teams, err := h.teamService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"teams": teams})
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Get(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamInput
	if !readInput(w, r, &input) {
		return
	}

	team, err := h.teamService.Update(r.Context(), actor, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary Upload a team logo
// @Tags teams
// @Accept multipart/form-data
// @Produce json
// @Param teamID path int true "Team ID"
// @Param logo formData file true "Logo image"
// @Success 200 {object} map[string]interface{} "Team with logo"
// @Failure 403 {object} map[string]string "Not a manager of the team"
// @Failure 415 {object} map[string]string "Unsupported image type"
// @Security BearerAuth
// @Router /api/v1/teams/{teamID}/logo [put]
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ok := readUpload(w, r, "logo")
	if !ok {
		return
	}
	defer file.Close()

	team, err := h.teamService.UploadLogo(r.Context(), actor, teamID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"team": team})
}
