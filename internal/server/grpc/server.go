// Package grpc exposes the voting services over gRPC as
// evoting.v1.VotingService with a JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/evoting/internal/logging"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/services"
	"google.golang.org/grpc"
)

// Authenticator resolves an access token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// Services bundles everything the handlers call into.
type Services struct {
	Identity     Authenticator
	Directory    *services.DirectoryService
	Lifecycle    *services.LifecycleService
	Registry     *services.RegistryService
	Ledger       *services.LedgerService
	Audit        *services.AuditService
	Provisioning *services.ProvisioningService
}

type GRPCServer struct {
	address  string
	services Services
	logger   logging.Logger
}

var _ pb.VotingServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, s Services) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		services: s,
	}
}

// NewServer builds the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterVotingServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
