package utils

import (
	"errors"
	"testing"

	"collabnest/backend/errs"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Lozinka1!", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "lozinka1!", true},
		{"no digit", "Lozinkaaa!", true},
		{"no special character", "Lozinka12", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errs.ErrInvalidInput) {
				t.Errorf("ValidatePassword(%q) should wrap ErrInvalidInput, got %v", tt.password, err)
			}
		})
	}
}
