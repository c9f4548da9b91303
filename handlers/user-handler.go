package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"collabnest/backend/models"
	"collabnest/backend/services"
	"collabnest/backend/utils"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type RegisterRequest struct {
	Email       string               `json:"email"`
	Password    string               `json:"password"`
	Role        models.Role          `json:"role"`
	ProfileData services.ProfileData `json:"profileData"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	actor, verificationPending, err := h.service.Register(r.Context(), request.Email, request.Password, request.Role, request.ProfileData)
	if err != nil {
		writeError(w, err)
		return
	}

	if verificationPending {
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "User created. Check your email for the verification code.",
			"success": true,
		})
		return
	}

	token, err := utils.GenerateToken(*actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully with profile",
		"success": true,
		"token":   token,
	})
}

// VerifyUser aktivira nalog verifikacionim kodom poslatim na email.
func (h *UserHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	if err := h.service.VerifyUser(r.Context(), request.Email, request.Code); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Account verified successfully",
		"success": true,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := decodeBody(w, r, &request); err != nil {
		return
	}

	actor, err := h.service.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := utils.GenerateToken(*actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"role":    actor.Role,
	})
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	var update services.UserUpdate
	if err := decodeBody(w, r, &update); err != nil {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, update, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID, actor); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
		"success": true,
	})
}
