package auth

import (
	"errors"

	"artwala_backend/internal/models"
)

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	if !models.UserRole(role).IsValid() {
		return errors.New("invalid role")
	}
	return nil
}
