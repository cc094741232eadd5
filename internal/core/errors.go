// Package core defines the fundamental types and errors for EstateFlow.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Auth errors
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("operation not permitted for this role")

	// Storage errors
	ErrLeadNotFound     = errors.New("lead not found")
	ErrAgentNotFound    = errors.New("agent not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMigrationFailed  = errors.New("migration failed")

	// Lead lifecycle errors
	ErrInvalidTransition = errors.New("invalid lead status transition")

	// Matching errors
	ErrNoAgentAvailable = errors.New("no verified agent available")

	// Chat errors
	ErrLLMUnavailable = errors.New("chat completion service unavailable")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
