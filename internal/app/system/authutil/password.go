// Package authutil provides password validation and hashing for admin
// accounts.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	BcryptCost        = 12
)

// Password validation errors
var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters.")
	ErrPasswordTooLong  = errors.New("Password must be less than 128 characters.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
)

// commonPasswords is a list of very common passwords that are blocked.
var commonPasswords = map[string]bool{
	"12345678":  true,
	"123456789": true,
	"password":  true,
	"password1": true,
	"qwerty123": true,
	"11111111":  true,
	"letmein1":  true,
	"welcome1":  true,
	"iloveyou":  true,
	"sunshine":  true,
	"princess":  true,
	"football":  true,
	"baseball":  true,
	"superman1": true,
	"admin123":  true,
}

// PasswordRules returns a human-readable description of the password rules.
// This can be displayed on password change forms.
func PasswordRules() string {
	return "Password must be at least 8 characters and cannot be a common password like \"12345678\" or \"password\"."
}

// ValidatePassword checks if a password meets the requirements.
// Returns nil if valid, or an error describing the issue.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
// The password should be validated with ValidatePassword first.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
}

// CheckPassword compares a plain-text password with a bcrypt hash.
// Returns true if the password matches, false otherwise.
func CheckPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
