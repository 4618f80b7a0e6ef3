package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/services"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags account
// @Produce json
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 404 {object} map[string]string "No profile yet"
// @Security BearerAuth
// @Router /api/v1/account/profile [get]
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	profile, err := h.accountService.GetProfile(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"profile": profile})
}

// SaveProfile godoc
// @Summary Create or update the caller's profile
// @Tags account
// @Accept json
// @Produce json
// @Param body body services.ProfileInput true "Profile"
// @Success 200 {object} map[string]interface{} "Profile updated"
// @Success 201 {object} map[string]interface{} "Profile created"
// @Failure 400 {object} map[string]string "Invalid profile"
// @Security BearerAuth
// @Router /api/v1/account/profile [post]
func (h *AccountHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.ProfileInput
	if !readInput(w, r, &input) {
		return
	}

	status := http.StatusOK
	if _, err := h.accountService.GetProfile(r.Context(), actor.UserID); errors.Is(err, services.ErrProfileNotFound) {
		status = http.StatusCreated
	}

	profile, err := h.accountService.SaveProfile(r.Context(), actor.UserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, status, jsonResponse{"profile": profile})
}

// Status godoc
// @Summary Report how far the caller got through signing up
// @Tags account
// @Produce json
// @Success 200 {object} services.RegistrationStatus
// @Security BearerAuth
// @Router /api/v1/account/status [get]
func (h *AccountHandler) Status(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	status, err := h.accountService.RegistrationStatus(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	respond(w, r, http.StatusOK, jsonResponse{
		"status":   status,
		"language": locale.Language.String(),
		"timezone": locale.Location.String(),
	})
}
