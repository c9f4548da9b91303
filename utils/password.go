package utils

import (
	"strings"

	"collabnest/backend/errs"
)

// ValidatePassword proverava minimalna pravila za lozinku pre hešovanja.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errs.InvalidInput("password must be at least 8 characters long")
	}

	hasUppercase := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
			break
		}
	}
	if !hasUppercase {
		return errs.InvalidInput("password must contain at least one uppercase letter")
	}

	hasDigit := false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return errs.InvalidInput("password must contain at least one number")
	}

	specialChars := "!@#$%^&*.,"
	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune(specialChars, char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return errs.InvalidInput("password must contain at least one special character")
	}

	return nil
}
