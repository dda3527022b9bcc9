package auth

import (
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 11

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies if the given password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password too short (min 8 characters)")
	}
	return nil
}

func validateName(name string) error {
	if len(name) < 3 {
		return fmt.Errorf("name too short (min 3 characters)")
	}
	return nil
}
