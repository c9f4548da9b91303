package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/models"
	"collabnest/backend/utils"
)

func okHandler(t *testing.T, wantUserID primitive.ObjectID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			t.Error("actor missing from request context")
		}
		if actor.UserID != wantUserID {
			t.Errorf("actor UserID = %v, want %v", actor.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(models.Actor{UserID: userID, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		JWTAuthMiddleware(okHandler(t, userID)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/projects", nil)
		rr := httptest.NewRecorder()

		JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run without a token")
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rr := httptest.NewRecorder()

		JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run with a bad token")
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	mentorOnly := RequireRoles(models.RoleMentor, models.RoleProfessor)

	t.Run("allowed role", func(t *testing.T) {
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleMentor}
		req := httptest.NewRequest("POST", "/api/projects", nil)
		req = req.WithContext(WithActor(req.Context(), actor))
		rr := httptest.NewRecorder()

		mentorOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleStudent}
		req := httptest.NewRequest("POST", "/api/projects", nil)
		req = req.WithContext(WithActor(req.Context(), actor))
		rr := httptest.NewRecorder()

		mentorOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run for a student")
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
		}
	})

	t.Run("no actor", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/projects", nil)
		rr := httptest.NewRecorder()

		mentorOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run without an actor")
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})
}
