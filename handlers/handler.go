package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/middleware"
	"collabnest/backend/models"
)

// writeJSON serializuje odgovor sa zadatim statusom.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError prevodi grešku servisa u HTTP status. Neočekivane greške se
// loguju, a klijent dobija generičku poruku bez internih detalja.
func writeError(w http.ResponseWriter, err error) {
	status := errs.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		message = "Internal Server Error"
	}
	writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}

// decodeBody dekodira JSON telo zahteva; na grešku odmah odgovara klijentu.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, errs.InvalidInput("invalid request payload"))
		return err
	}
	return nil
}

// parseObjectID parsira hex ID iz putanje u ObjectID.
func parseObjectID(value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, errs.InvalidInput("invalid ID format")
	}
	return id, nil
}

// requireActor vadi aktera iz context-a; bez njega zahtev je neautentifikovan.
func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, errs.Unauthenticated("authentication required"))
		return models.Actor{}, false
	}
	return actor, true
}
