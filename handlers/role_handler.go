package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type RoleHandler struct {
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func roleFilterFromQuery(r *http.Request) (models.RoleFilter, error) {
	var filter models.RoleFilter
	var err error
	if filter.UserID, err = queryInt(r, "user_id"); err != nil {
		return filter, err
	}
	if filter.TeamID, err = queryInt(r, "team_id"); err != nil {
		return filter, err
	}
	if filter.SportID, err = queryInt(r, "sport_id"); err != nil {
		return filter, err
	}
	if filter.LeagueID, err = queryInt(r, "league_id"); err != nil {
		return filter, err
	}
	filter.ActiveOnly = r.URL.Query().Get("active") == "true"
	return filter, nil
}

// CreatePlayer godoc
// @Summary Create a player record
// @Description The user must be registered as a Player for the team's sport.
// @Tags roles
// @Accept json
// @Produce json
// @Param body body services.PlayerInput true "Player"
// @Success 201 {object} map[string]interface{} "Player created"
// @Failure 400 {object} map[string]string "Role not registered or invalid position"
// @Failure 409 {object} map[string]string "Jersey number taken"
// @Security BearerAuth
// @Router /api/v1/players [post]
func (h *RoleHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.PlayerInput
	if !readInput(w, r, &input) {
		return
	}

	player, err := h.roleService.CreatePlayer(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"player": player})
}

func (h *RoleHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	playerID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.PlayerUpdateInput
	if !readInput(w, r, &input) {
		return
	}

	player, err := h.roleService.UpdatePlayer(r.Context(), actor, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"player": player})
}

func (h *RoleHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	filter, err := roleFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.roleService.ListPlayers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

func (h *RoleHandler) CreateCoach(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.CoachInput
	if !readInput(w, r, &input) {
		return
	}

	coach, err := h.roleService.CreateCoach(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"coach": coach})
}

func (h *RoleHandler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	filter, err := roleFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	coaches, err := h.roleService.ListCoaches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"coaches": coaches})
}

func (h *RoleHandler) CreateReferee(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.RefereeInput
	if !readInput(w, r, &input) {
		return
	}

	referee, err := h.roleService.CreateReferee(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"referee": referee})
}

func (h *RoleHandler) ListReferees(w http.ResponseWriter, r *http.Request) {
	filter, err := roleFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	referees, err := h.roleService.ListReferees(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"referees": referees})
}

func (h *RoleHandler) CreateManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.ManagerInput
	if !readInput(w, r, &input) {
		return
	}

	manager, err := h.roleService.CreateManager(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"manager": manager})
}

func (h *RoleHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	filter, err := roleFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	managers, err := h.roleService.ListManagers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"managers": managers})
}

func (h *RoleHandler) CreateScorekeeper(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.ScorekeeperInput
	if !readInput(w, r, &input) {
		return
	}

	scorekeeper, err := h.roleService.CreateScorekeeper(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"scorekeeper": scorekeeper})
}

func (h *RoleHandler) ListScorekeepers(w http.ResponseWriter, r *http.Request) {
	filter, err := roleFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scorekeepers, err := h.roleService.ListScorekeepers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"scorekeepers": scorekeepers})
}

// Deactivate godoc
// @Summary Deactivate a role record
// @Description Available as /players/{id}/deactivate, /coaches/{id}/deactivate, /referees/{id}/deactivate, /managers/{id}/deactivate and /scorekeepers/{id}/deactivate.
// @Tags roles
// @Produce json
// @Param id path int true "Role record ID"
// @Success 200 {object} map[string]string "{\"detail\": \"Player deactivated\"}"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /api/v1/players/{id}/deactivate [patch]
func (h *RoleHandler) Deactivate(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentActor(w, r)
		if !ok {
			return
		}
		id, err := getIDFromURL(r, "id")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}

		if err := h.roleService.Deactivate(r.Context(), actor, role, id); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}

		respond(w, r, http.StatusOK, jsonResponse{"detail": string(role) + " deactivated"})
	}
}
