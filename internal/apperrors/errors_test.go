package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: no such listing", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: owner cannot bid on own listing", ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("%w: minimum acceptable bid is 101", ErrBidTooLow), http.StatusBadRequest},
		{ErrListingClosed, http.StatusBadRequest},
		{fmt.Errorf("%w: entry CSS", ErrConflict), http.StatusBadRequest},
		{ErrBadCredentials, http.StatusUnauthorized},
		{fmt.Errorf("insert user: %w", ErrIntegrity), http.StatusInternalServerError},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestMessage(t *testing.T) {
	require.Equal(t, "Minimum acceptable bid is 101",
		Message(fmt.Errorf("%w: minimum acceptable bid is 101", ErrBidTooLow)))
	require.Equal(t, "Auction is closed", Message(ErrListingClosed))
	require.Equal(t, "Something went wrong. Please try again.",
		Message(errors.New("sql: database is locked")))
}

func TestMessageStripsOuterContext(t *testing.T) {
	err := fmt.Errorf("place bid: %w", fmt.Errorf("%w: owner cannot bid on own listing", ErrPermissionDenied))
	require.Equal(t, "Owner cannot bid on own listing", Message(err))
}
