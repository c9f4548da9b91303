package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"collabnest/backend/models"
	"collabnest/backend/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
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
		Description string `json:"description"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	task, err := h.service.CreateTask(r.Context(), projectID, request.Title, request.Description, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully",
		"success": true,
		"task":    task,
	})
}

func (h *TaskHandler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.service.GetForProject(r.Context(), projectID, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tasks fetched successfully",
		"success": true,
		"tasks":   tasks,
	})
}

// AssignTask dodeljuje task studentu sa rokom u danima.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	taskID, err := parseObjectID(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		StudentID    string `json:"studentId"`
		DeadlineDays int    `json:"deadlineDays"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	studentID, err := parseObjectID(request.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.AssignTask(r.Context(), taskID, studentID, request.DeadlineDays, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task assigned successfully",
		"success": true,
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	taskID, err := parseObjectID(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var update models.TaskUpdate
	if err := decodeBody(w, r, &update); err != nil {
		return
	}

	task, err := h.service.UpdateTask(r.Context(), taskID, update, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task updated successfully",
		"success": true,
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	taskID, err := parseObjectID(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID, actor); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task deleted successfully",
		"success": true,
	})
}

// TrackProjectProgress je javni uvid u napredak projekta.
func (h *TaskHandler) TrackProjectProgress(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseObjectID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	progress, err := h.service.TrackProgress(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Project progress tracked successfully",
		"success":  true,
		"progress": progress,
	})
}
