package service

import (
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errAuthRequired = errors.New("authentication required")
	errNotOwner     = errors.New("record belongs to another user")
)

// toConnectError maps a domain or storage error to a Connect error and logs
// it. op names the failing operation, attrs are extra log attributes.
func toConnectError(op string, err error, attrs ...any) error {
	code := errorCode(err)
	args := append([]any{"error", err}, attrs...)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", args...)
	} else {
		slog.Warn(op+" rejected", append(args, "code", code)...)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(code, err)
}

func errorCode(err error) connect.Code {
	var (
		invalidSplit    *calculator.InvalidSplitError
		amountMismatch  *calculator.AmountMismatchError
		percentMismatch *calculator.PercentageMismatchError
		invalidShares   *calculator.InvalidSharesError
		adjustMismatch  *calculator.AdjustmentMismatchError
		noParticipant   *calculator.ParticipantNotFoundError
		connectErr      *connect.Error
	)
	switch {
	case errors.As(err, &connectErr):
		return connectErr.Code()
	case errors.As(err, &invalidSplit),
		errors.As(err, &amountMismatch),
		errors.As(err, &percentMismatch),
		errors.As(err, &invalidShares),
		errors.As(err, &adjustMismatch):
		return connect.CodeInvalidArgument
	case errors.As(err, &noParticipant), errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, errNotOwner):
		return connect.CodePermissionDenied
	default:
		return connect.CodeInternal
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
