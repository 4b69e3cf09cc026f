package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/sessionkeeper/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "missing field -> InvalidArgument",
			in:       model.ErrMissingPassword,
			wantCode: codes.InvalidArgument,
			wantMsg:  model.ErrMissingPassword.Error(),
		},
		{
			name:     "email exists -> AlreadyExists",
			in:       model.ErrEmailExists,
			wantCode: codes.AlreadyExists,
			wantMsg:  "email already exists",
		},
		{
			name:     "username exists -> AlreadyExists",
			in:       model.ErrUsernameExists,
			wantCode: codes.AlreadyExists,
			wantMsg:  "username already exists",
		},
		{
			name:     "token expired -> Unauthenticated",
			in:       model.ErrTokenExpired,
			wantCode: codes.Unauthenticated,
			wantMsg:  "token expired",
		},
		{
			name:     "incorrect password -> Unauthenticated",
			in:       model.ErrIncorrectPassword,
			wantCode: codes.Unauthenticated,
			wantMsg:  "incorrect password",
		},
		{
			name:     "pairing mismatch -> Unauthenticated",
			in:       model.ErrPairingMismatch,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrPairingMismatch.Error(),
		},
		{
			name:     "store failure hides details",
			in:       fmt.Errorf("%w: connection refused", model.ErrStore),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st, ok := status.FromError(handleError(tt.in))
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
