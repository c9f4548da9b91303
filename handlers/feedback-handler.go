package handlers

import (
	"net/http"

	"collabnest/backend/services"
)

type FeedbackHandler struct {
	service *services.FeedbackService
}

func NewFeedbackHandler(service *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// SubmitFeedback čuva poruku ulogovanog korisnika za admine.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var request struct {
		Message string `json:"message"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), actor.UserID, request.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Feedback submitted successfully",
		"success": true,
		"data":    feedback,
	})
}
