package service

import "errors"

// Failure taxonomy shared by every service. Handlers map these to transport
// status codes with errors.Is; anything not matching surfaces as an
// internal error after transaction rollback.
var (
	// ErrNotFound means the resource is absent (or deliberately treated as
	// absent, e.g. an inactive coupon).
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden means the resource exists but its ownership chain does
	// not reach the calling user.
	ErrForbidden = errors.New("resource not owned by caller")
	// ErrQuotaExceeded means the entitlement check for the user's
	// effective tier denied the action.
	ErrQuotaExceeded = errors.New("quota exceeded for current plan")
	// ErrValidation means a required field is missing or invalid.
	ErrValidation = errors.New("validation failed")
	// ErrConflict covers state conflicts such as the per-maintenance image
	// cap or a coupon redeemed twice by the same user.
	ErrConflict = errors.New("conflict with current state")
)
