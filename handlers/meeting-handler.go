package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"collabnest/backend/errs"
	"collabnest/backend/services"
)

type MeetingHandler struct {
	service *services.MeetingService
}

func NewMeetingHandler(service *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

func (h *MeetingHandler) ScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		Title       string `json:"title"`
		ScheduledAt string `json:"scheduledAt"`
		MeetingLink string `json:"meetingLink"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, request.ScheduledAt)
	if err != nil {
		writeError(w, errs.InvalidInput("scheduledAt must be an RFC3339 timestamp"))
		return
	}

	meeting, err := h.service.ScheduleMeeting(r.Context(), projectID, request.Title, scheduledAt, request.MeetingLink, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Meeting scheduled successfully",
		"success": true,
		"meeting": meeting,
	})
}

func (h *MeetingHandler) GetProjectMeetings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	meetings, err := h.service.GetForProject(r.Context(), projectID, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"meetings": meetings,
	})
}
