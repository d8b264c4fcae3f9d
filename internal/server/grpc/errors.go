package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/evoting/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorForbidden, codes.PermissionDenied},
	{common.ErrorInvalidState, codes.FailedPrecondition},
	{common.ErrorConflict, codes.AlreadyExists},
	{common.ErrorInvalidInput, codes.InvalidArgument},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
}

// toStatus maps service errors to gRPC statuses. Internal errors are logged
// and returned without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	s.logger.Error(ctx, "internal error", "error", err)
	return status.Error(codes.Internal, "internal error")
}
