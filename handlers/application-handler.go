package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"collabnest/backend/errs"
	"collabnest/backend/models"
	"collabnest/backend/services"
)

type ApplicationHandler struct {
	service *services.ApplicationService
}

func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// ApplyForProject - student se prijavljuje na projekat. Student ID dolazi
// iz tokena, ne iz tela zahteva.
func (h *ApplicationHandler) ApplyForProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.StudentID == nil {
		writeError(w, errs.Forbidden("a student profile is required to apply"))
		return
	}

	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	application, err := h.service.Apply(r.Context(), *actor.StudentID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Application submitted successfully.",
		"success":     true,
		"application": application,
	})
}

// UpdateApplicationStatus sprovodi odluku mentora/profesora nad prijavom.
func (h *ApplicationHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	applicationID, err := parseObjectID(mux.Vars(r)["applicationId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		Status models.ApplicationStatus `json:"status"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	application, err := h.service.UpdateStatus(r.Context(), applicationID, request.Status, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Application status updated successfully.",
		"success":     true,
		"application": application,
	})
}

// GetProjectApplications vraća prijave na projekat sa kontaktima studenata.
func (h *ApplicationHandler) GetProjectApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	applications, err := h.service.GetForProject(r.Context(), projectID, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Applications fetched successfully",
		"success":      true,
		"applications": applications,
	})
}
