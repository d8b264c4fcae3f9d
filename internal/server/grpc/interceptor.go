package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var publicMethods = map[string]bool{
	pb.VotingService_Ping_FullMethodName: true,
}

// accessTokenInterceptor authenticates every non-public call and stores the
// resolved principal in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.services.Identity.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(auth.WithPrincipal(ctx, p), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

// principal returns the caller stored by accessTokenInterceptor.
func principal(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Principal{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return p, nil
}
