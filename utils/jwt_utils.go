package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

var jwtSecret []byte

// SetSecret postavlja ključ potpisa. Mora se pozvati pre izdavanja ili
// provere tokena; server ga postavlja iz konfiguracije pri pokretanju.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

type Claims struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	StudentID   string `json:"studentId,omitempty"`
	MentorID    string `json:"mentorId,omitempty"`
	ProfessorID string `json:"professorId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken izdaje token koji nosi identitet i profile ID-jeve aktera.
func GenerateToken(actor models.Actor) (string, error) {
	claims := &Claims{
		UserID: actor.UserID.Hex(),
		Role:   string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
		},
	}
	if actor.StudentID != nil {
		claims.StudentID = actor.StudentID.Hex()
	}
	if actor.MentorID != nil {
		claims.MentorID = actor.MentorID.Hex()
	}
	if actor.ProfessorID != nil {
		claims.ProfessorID = actor.ProfessorID.Hex()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken proverava potpis i istek, pa rekonstruiše aktera iz claim-ova.
func ValidateToken(tokenStr string) (*models.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.Unauthenticated("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errs.Unauthenticated("token has expired")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, errs.Unauthenticated("invalid token subject")
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, errs.Unauthenticated("invalid role in token")
	}

	actor := &models.Actor{UserID: userID, Role: role}
	if claims.StudentID != "" {
		id, err := primitive.ObjectIDFromHex(claims.StudentID)
		if err != nil {
			return nil, errs.Unauthenticated("invalid student claim")
		}
		actor.StudentID = &id
	}
	if claims.MentorID != "" {
		id, err := primitive.ObjectIDFromHex(claims.MentorID)
		if err != nil {
			return nil, errs.Unauthenticated("invalid mentor claim")
		}
		actor.MentorID = &id
	}
	if claims.ProfessorID != "" {
		id, err := primitive.ObjectIDFromHex(claims.ProfessorID)
		if err != nil {
			return nil, errs.Unauthenticated("invalid professor claim")
		}
		actor.ProfessorID = &id
	}
	return actor, nil
}
