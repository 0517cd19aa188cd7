package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/export"
	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/pkg/api/apiconnect"
)

var (
	errNotMember        = errors.New("you are not a member of this group")
	errUnsettledBalance = errors.New("member still has an outstanding balance")
	errCurrencyLocked   = errors.New("master currency cannot change once the group has expenses")
	errTransferReadOnly = errors.New("transfers cannot be edited")
	errLastMember       = errors.New("the last member cannot leave the group")
)

// toConnectError maps domain and storage failures onto Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return err
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return apiconnect.NewValidationError(appErr, string(appErr.Kind), appErr.Field)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, errNotMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errUnsettledBalance),
		errors.Is(err, errCurrencyLocked),
		errors.Is(err, errTransferReadOnly),
		errors.Is(err, errLastMember),
		errors.Is(err, export.ErrNothingToExport):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrInvalidName):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	slog.Error("Unexpected error", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// callerID returns the authenticated user of the request.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberGroup loads a group and checks the caller belongs to it.
func memberGroup(ctx context.Context, groups storage.GroupStore, groupID string) (*models.Group, string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, "", err
	}
	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	if !group.HasMember(userID) {
		return nil, "", errNotMember
	}
	return group, userID, nil
}
