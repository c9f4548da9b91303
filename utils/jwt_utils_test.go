package utils

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	mentorID := primitive.NewObjectID()
	actor := models.Actor{
		UserID:   primitive.NewObjectID(),
		Role:     models.RoleMentor,
		MentorID: &mentorID,
	}

	token, err := GenerateToken(actor)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	parsed, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if parsed.UserID != actor.UserID {
		t.Errorf("UserID = %v, want %v", parsed.UserID, actor.UserID)
	}
	if parsed.Role != models.RoleMentor {
		t.Errorf("Role = %v, want %v", parsed.Role, models.RoleMentor)
	}
	if parsed.MentorID == nil || *parsed.MentorID != mentorID {
		t.Errorf("MentorID = %v, want %v", parsed.MentorID, mentorID)
	}
	if parsed.StudentID != nil {
		t.Errorf("StudentID should be nil, got %v", parsed.StudentID)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ValidateToken(token + "x"); err == nil {
		t.Error("tampered token should not validate")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateToken(models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetSecret("another-secret")
	_, err = ValidateToken(token)
	if err == nil {
		t.Fatal("token signed with a different secret should not validate")
	}
	if !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("error should wrap ErrUnauthenticated, got %v", err)
	}
}

func TestTokenSignedWithUninstalledKeyDoesNotValidate(t *testing.T) {
	// Token izdat pre postavljanja ključa (prazan ključ) ne sme da prođe
	// proveru kad je pravi ključ instaliran.
	SetSecret("")
	forged, err := GenerateToken(models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetSecret("supersecret")
	if _, err := ValidateToken(forged); err == nil {
		t.Fatal("token signed with an empty key should not validate against the configured secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should not validate")
	}
}
