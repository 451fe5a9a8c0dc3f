package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

// Kinds surfaced to users. Wrap with fmt.Errorf("%w: detail", ErrX) so the
// detail reaches the page and errors.Is still matches.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("invalid input")
	ErrConflict         = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrBadCredentials   = errors.New("invalid username and/or password")
)

// Auction rule violations; both are validation failures.
var (
	ErrBidTooLow     = errors.New("bid too low")
	ErrListingClosed = errors.New("auction is closed")
)

// ErrIntegrity marks a constraint violation raised by the database.
var ErrIntegrity = errors.New("integrity violation")

// Status maps an error kind to the HTTP status used at the handler boundary.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrBidTooLow),
		errors.Is(err, ErrListingClosed),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns text that is safe to show. Unknown errors never leak.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	msg := err.Error()
	for _, k := range kinds {
		if i := strings.Index(msg, k.Error()+": "); i >= 0 {
			msg = msg[i+len(k.Error())+2:]
			break
		}
	}
	if msg == "" {
		return "Request failed."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

var kinds = []error{ErrNotFound, ErrValidation, ErrConflict, ErrPermissionDenied, ErrBadCredentials, ErrBidTooLow, ErrListingClosed}
