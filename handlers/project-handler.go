package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"collabnest/backend/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var input services.ProjectInput
	if err := decodeBody(w, r, &input); err != nil {
		return
	}

	project, err := h.service.CreateProject(r.Context(), input, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Project created successfully",
		"success": true,
		"project": project,
	})
}

// GetProjects je javni listing sa filterima po veštinama i oblasti.
func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var skills, fields []string
	if skill := query.Get("skill"); skill != "" {
		skills = strings.Split(skill, ",")
	}
	if fieldQ := query.Get("fieldQ"); fieldQ != "" {
		fields = strings.Split(fieldQ, ",")
	}
	page, limit := parsePagination(query.Get("page"), query.Get("limit"))

	projects, total, err := h.service.GetProjects(r.Context(), skills, fields, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Projects Fetched.",
		"success":  true,
		"projects": projects,
		"pagination": map[string]interface{}{
			"total":       total,
			"currentPage": page,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.service.GetProjectDetail(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project info Fetched.",
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var input services.ProjectInput
	if err := decodeBody(w, r, &input); err != nil {
		return
	}

	project, err := h.service.UpdateProject(r.Context(), projectID, input, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project updated successfully",
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteProject(r.Context(), projectID, actor); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project deleted successfully",
		"success": true,
	})
}

// GetStudentProjects vraća projekte na koje je ulogovani student upisan.
func (h *ProjectHandler) GetStudentProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	projects, err := h.service.GetProjectsForStudent(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"projects": projects,
	})
}

// GetMentorProjects vraća projekte koje ulogovani mentor vodi.
func (h *ProjectHandler) GetMentorProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	projects, err := h.service.GetProjectsForMentor(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"projects": projects,
	})
}

func parsePagination(pageStr, limitStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
