package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrEmptyName = errors.New("exercise name cannot be empty")
)

// Max length constants.
const (
	MaxNameLength         = 200
	MaxInstructionsLength = 4000
)

// Exercise is a catalog entry a physio can assign to a patient.
type Exercise struct {
	ID   string
	Name string

	// Instructions is optional markdown shown next to the exercise on the patient agenda.
	Instructions string
}

// Validate checks if the Exercise has valid data.
// PRE: Exercise struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > MaxNameLength {
		return fmt.Errorf("exercise name cannot exceed %d characters", MaxNameLength)
	}
	if len(e.Instructions) > MaxInstructionsLength {
		return fmt.Errorf("exercise instructions cannot exceed %d characters", MaxInstructionsLength)
	}
	return nil
}
