package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type ChoiceHandler struct {
	choiceService services.ChoiceService
}

func NewChoiceHandler(choiceService services.ChoiceService) *ChoiceHandler {
	return &ChoiceHandler{choiceService: choiceService}
}

// ListChoices godoc
// @Summary List generic choices of a content type
// @Tags choices
// @Produce json
// @Param content_type query string true "Content type, for example game_type or game_point_value"
// @Success 200 {object} map[string]interface{} "Choices"
// @Router /api/v1/choices [get]
func (h *ChoiceHandler) ListChoices(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("content_type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("query parameter content_type is required"))
		return
	}

	choices, err := h.choiceService.List(r.Context(), contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"choices": choices})
}

func (h *ChoiceHandler) CreateChoice(w http.ResponseWriter, r *http.Request) {
	var input services.ChoiceInput
	if !readInput(w, r, &input) {
		return
	}

	choice, err := h.choiceService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"choice": choice})
}
