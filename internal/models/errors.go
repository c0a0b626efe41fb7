package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when request data fails a business rule,
	// e.g. an order with no items or an unknown delivery person.
	ErrValidation = errors.New("invalid request data")

	// ErrInvalidStatus is returned when a status update names a value
	// outside the fixed {pending, out_for_delivery, delivered, cancelled} set.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrInvalidTransition is returned when the requested status change has
	// no edge in the state machine (e.g. pending straight to delivered, or
	// assigning an order that is no longer pending).
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrOrderAlreadyFinal is returned on any attempt to move an order out
	// of a terminal state (delivered or cancelled).
	ErrOrderAlreadyFinal = errors.New("order is already in a final state")

	// ErrForbidden is returned when the caller's role does not permit the
	// requested operation.
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrTokenMismatch is returned when the token presented at handoff does
	// not belong to the order being marked delivered.
	ErrTokenMismatch = errors.New("order token verification failed")

	// ErrDuplicateToken is returned by the store when a freshly generated
	// order token collides with an existing one; callers retry generation.
	ErrDuplicateToken = errors.New("order token already exists")

	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned on login with a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidOTP is returned when a password-reset code is wrong or expired.
	ErrInvalidOTP = errors.New("invalid or expired reset code")
)

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Message string `json:"message"`
}
