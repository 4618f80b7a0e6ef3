package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type LocationHandler struct {
	locationService services.LocationService
}

func NewLocationHandler(locationService services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var input services.LocationInput
	if !readInput(w, r, &input) {
		return
	}

	location, err := h.locationService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"location": location})
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"locations": locations})
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := getIDFromURL(r, "locationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.locationService.Get(r.Context(), locationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"location": location})
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := getIDFromURL(r, "locationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.LocationInput
	if !readInput(w, r, &input) {
		return
	}

	location, err := h.locationService.Update(r.Context(), locationID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"location": location})
}

func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := getIDFromURL(r, "locationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.locationService.Delete(r.Context(), locationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
