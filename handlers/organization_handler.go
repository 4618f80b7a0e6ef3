package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type OrganizationHandler struct {
	orgService services.OrganizationService
}

func NewOrganizationHandler(orgService services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization godoc
// @Summary Create an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param body body services.OrganizationInput true "Organization"
// @Success 201 {object} map[string]interface{} "Organization created"
// @Failure 409 {object} map[string]string "Name already taken for the sport"
// @Security BearerAuth
// @Router /api/v1/organizations [post]
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.OrganizationInput
	if !readInput(w, r, &input) {
		return
	}

	org, err := h.orgService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"organization": org})
}

func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	sportID, err := queryInt(r, "sport_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	orgs, err := h.orgService.List(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"organizations": orgs})
}

func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "organizationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	org, err := h.orgService.Get(r.Context(), orgID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"organization": org})
}

func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	orgID, err := getIDFromURL(r, "organizationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.OrganizationInput
	if !readInput(w, r, &input) {
		return
	}

	org, err := h.orgService.Update(r.Context(), actor, orgID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"organization": org})
}

func (h *OrganizationHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	orgID, err := getIDFromURL(r, "organizationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ok := readUpload(w, r, "logo")
	if !ok {
		return
	}
	defer file.Close()

	org, err := h.orgService.UploadLogo(r.Context(), actor, orgID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"organization": org})
}
