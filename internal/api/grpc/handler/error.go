package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/sessionkeeper/internal/model"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrMissingField):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrEmailExists), errors.Is(err, model.ErrUsernameExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrStore):
		return status.Error(codes.Internal, "internal server error")
	case errors.Is(err, model.ErrIncorrectPassword),
		errors.Is(err, model.ErrPairingMismatch),
		model.IsTokenError(err):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
