package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

type SportRegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewSportRegistrationHandler(registrationService services.RegistrationService) *SportRegistrationHandler {
	return &SportRegistrationHandler{registrationService: registrationService}
}

type addRolesInput struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,role"`
}

// ListRegistrations godoc
// @Summary List the caller's sport registrations
// @Tags sportregistrations
// @Produce json
// @Success 200 {object} map[string]interface{} "Registrations"
// @Security BearerAuth
// @Router /api/v1/sportregistrations [get]
func (h *SportRegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	regs, err := h.registrationService.ListForUser(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"sport_registrations": regs})
}

// CreateRegistration godoc
// @Summary Register the caller for a sport with one or more roles
// @Tags sportregistrations
// @Accept json
// @Produce json
// @Param body body services.RegistrationInput true "Sport and roles"
// @Success 201 {object} map[string]interface{} "Registration created"
// @Failure 409 {object} map[string]string "Already registered for the sport"
// @Security BearerAuth
// @Router /api/v1/sportregistrations [post]
func (h *SportRegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.RegistrationInput
	if !readInput(w, r, &input) {
		return
	}

	reg, err := h.registrationService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"sport_registration": reg})
}

func (h *SportRegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	regID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.Get(r.Context(), actor, regID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"sport_registration": reg})
}

func (h *SportRegistrationHandler) AddRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	regID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addRolesInput
	if !readInput(w, r, &input) {
		return
	}

	reg, err := h.registrationService.AddRoles(r.Context(), actor, regID, input.Roles)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"sport_registration": reg})
}

// RemoveRole godoc
// @Summary Remove a role from a sport registration
// @Description Deactivates the caller's records for the role. A registration must keep at least one role.
// @Tags sportregistrations
// @Produce json
// @Param registrationID path int true "Sport registration ID"
// @Param role path string true "Role name (Player, Coach, Referee, Manager, Scorekeeper)"
// @Success 200 {object} map[string]string "{\"detail\": \"Coach role removed\"}"
// @Failure 400 {object} map[string]string "{\"error\": ...} role not registered or last role"
// @Security BearerAuth
// @Router /api/v1/sportregistrations/{registrationID}/remove-role/{role} [patch]
func (h *SportRegistrationHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	regID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	role, err := h.registrationService.RemoveRole(r.Context(), actor, regID, chi.URLParam(r, "role"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLastRole):
			badRequestResponse(w, r, fmt.Errorf("you cannot remove %s, you only have one role", chi.URLParam(r, "role")))
		case errors.Is(err, services.ErrRoleNotRegistered), errors.Is(err, models.ErrUnknownRole):
			badRequestResponse(w, r, fmt.Errorf("you are not registered as a %s", chi.URLParam(r, "role")))
		default:
			mapServiceErrorToHTTP(w, r, err)
		}
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"detail": fmt.Sprintf("%s role removed", role)})
}
