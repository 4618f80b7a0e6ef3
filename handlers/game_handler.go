package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
)

type GameHandler struct {
	gameService    services.GameService
	penaltyService services.PenaltyService
}

func NewGameHandler(gameService services.GameService, penaltyService services.PenaltyService) *GameHandler {
	return &GameHandler{
		gameService:    gameService,
		penaltyService: penaltyService,
	}
}

type gameStatusInput struct {
	Status string `json:"status" validate:"required,oneof=scheduled in_progress completed postponed cancelled"`
}

// CreateGame godoc
// @Summary Schedule a game
// @Description Periods are created with the game.
// @Tags games
// @Accept json
// @Produce json
// @Param body body services.GameInput true "Game"
// @Success 201 {object} map[string]interface{} "Game created"
// @Failure 400 {object} map[string]string "Invalid teams or times"
// @Security BearerAuth
// @Router /api/v1/games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input services.GameInput
	if !readInput(w, r, &input) {
		return
	}

	game, err := h.gameService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"game": game})
}

// ListGames godoc
// @Summary List games
// @Tags games
// @Produce json
// @Param season_id query int false "Season filter"
// @Param team_id query int false "Team filter (home or away)"
// @Param status query string false "Status filter"
// @Param from query string false "Start lower bound, RFC 3339"
// @Param to query string false "Start upper bound, RFC 3339"
// @Success 200 {object} map[string]interface{} "Games"
// @Router /api/v1/games [get]
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	var filter repositories.GameFilter
	var err error
	if filter.SeasonID, err = queryInt(r, "season_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.TeamID, err = queryInt(r, "team_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = models.GameStatus(status)
		if !filter.Status.Valid() {
			badRequestResponse(w, r, services.ErrGameStatusInvalid)
			return
		}
	}
	if filter.From, err = queryTime(r, "from"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"games": games})
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("query parameter %s must be an RFC 3339 timestamp", name)
	}
	return t, nil
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Get(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"game": game})
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.Delete(r.Context(), actor, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Change a game's status
// @Tags games
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body gameStatusInput true "New status"
// @Success 200 {object} map[string]interface{} "Game"
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 403 {object} map[string]string "Not a referee or scorekeeper"
// @Security BearerAuth
// @Router /api/v1/games/{gameID}/status [patch]
func (h *GameHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input gameStatusInput
	if !readInput(w, r, &input) {
		return
	}

	game, err := h.gameService.UpdateStatus(r.Context(), actor, gameID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"game": game})
}

// SetRoster godoc
// @Summary Set the roster of one side of a hockey game
// @Description Players must be active players of the side's team. The starting goaltender is required, must be on the roster and must play G.
// @Tags games
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body services.GameRosterInput true "Roster"
// @Success 200 {object} map[string]interface{} "Game"
// @Failure 400 {object} map[string]string "Roster violates a rule"
// @Failure 403 {object} map[string]string "Not a manager or coach of the team"
// @Security BearerAuth
// @Router /api/v1/games/{gameID}/roster [put]
func (h *GameHandler) SetRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.GameRosterInput
	if !readInput(w, r, &input) {
		return
	}

	game, err := h.gameService.SetRoster(r.Context(), actor, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"game": game})
}

func (h *GameHandler) FinishPeriod(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	periodID, err := getIDFromURL(r, "periodID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	period, err := h.gameService.FinishPeriod(r.Context(), actor, gameID, periodID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"period": period})
}

// RecordPenalty godoc
// @Summary Record a penalty
// @Tags penalties
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body services.PenaltyInput true "Penalty"
// @Success 201 {object} map[string]interface{} "Penalty recorded"
// @Failure 400 {object} map[string]string "Period, team or player not part of the game"
// @Security BearerAuth
// @Router /api/v1/games/{gameID}/penalties [post]
func (h *GameHandler) RecordPenalty(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.PenaltyInput
	if !readInput(w, r, &input) {
		return
	}

	penalty, err := h.penaltyService.Record(r.Context(), actor, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"penalty": penalty})
}

func (h *GameHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	penalties, err := h.penaltyService.ListByGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"penalties": penalties})
}

func (h *GameHandler) DeletePenalty(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	penaltyID, err := getIDFromURL(r, "penaltyID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.penaltyService.Delete(r.Context(), actor, gameID, penaltyID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) CreatePenaltyType(w http.ResponseWriter, r *http.Request) {
	var input services.PenaltyTypeInput
	if !readInput(w, r, &input) {
		return
	}

	pt, err := h.penaltyService.CreateType(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"penalty_type": pt})
}

func (h *GameHandler) ListPenaltyTypes(w http.ResponseWriter, r *http.Request) {
	sportID, err := queryInt(r, "sport_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	types, err := h.penaltyService.ListTypes(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"penalty_types": types})
}

func (h *GameHandler) DeletePenaltyType(w http.ResponseWriter, r *http.Request) {
	typeID, err := getIDFromURL(r, "typeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.penaltyService.DeleteType(r.Context(), typeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
