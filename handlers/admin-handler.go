package handlers

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"collabnest/backend/repositories"
	"collabnest/backend/services"
)

// AdminHandler pokriva admin operacije: red čekanja za odobravanje
// projekata, odluke, pregled feedback-a i dnevnik aktivnosti projekta.
type AdminHandler struct {
	projects *services.ProjectService
	feedback *services.FeedbackService
	activity *repositories.ActivityRepo
}

func NewAdminHandler(projects *services.ProjectService, feedback *services.FeedbackService, activity *repositories.ActivityRepo) *AdminHandler {
	return &AdminHandler{projects: projects, feedback: feedback, activity: activity}
}

func (h *AdminHandler) GetPendingProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, limit := parsePagination(query.Get("page"), query.Get("limit"))

	projects, total, err := h.projects.GetPendingProjects(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    projects,
		"pagination": map[string]interface{}{
			"total":       total,
			"currentPage": page,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// UpdateProjectApproval sprovodi odluku admina nad projektom u statusu OPEN.
func (h *AdminHandler) UpdateProjectApproval(w http.ResponseWriter, r *http.Request) {
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
		Approved *bool `json:"approved"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}
	if request.Approved == nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Approved status must be a boolean",
		})
		return
	}

	project, err := h.projects.UpdateApproval(r.Context(), projectID, *request.Approved, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    project,
	})
}

func (h *AdminHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, limit := parsePagination(query.Get("page"), query.Get("limit"))

	feedback, total, err := h.feedback.GetFeedback(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    feedback,
		"pagination": map[string]interface{}{
			"total":       total,
			"currentPage": page,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetProjectActivity vraća poslednje događaje iz dnevnika projekta.
func (h *AdminHandler) GetProjectActivity(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	activities, err := h.activity.ListForProject(projectID.Hex(), 50)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"activities": activities,
	})
}
