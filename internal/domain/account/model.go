package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 100
)

// Role is the closed set of roles an account can hold.
type Role string

// Role constants
const (
	RolePhysio  Role = "physio"
	RolePatient Role = "patient"
)

// bcryptCost is the work factor used for new password hashes.
const bcryptCost = 12

// Domain errors
var (
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmailTooLong  = errors.New("email cannot exceed 254 characters")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrNameTooLong   = errors.New("name cannot exceed 100 characters")
	ErrInvalidRole   = errors.New("role must be one of: physio, patient")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrWrongPassword = errors.New("incorrect password")
)

// ParseRole converts a stored or submitted value into a Role.
// PRE: none
// POST: Returns the matching Role, or ErrInvalidRole for any other value
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RolePhysio:
		return RolePhysio, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String returns the stored form of the role.
func (r Role) String() string {
	return string(r)
}

// Account holds state for the Account concept.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Name         string // display label
	CreatedAt    time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !a.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsPatient returns true if the account has the patient role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsPatient() bool {
	return a.Role == RolePatient
}
