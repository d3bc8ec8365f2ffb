// Package grpc exposes AuthService over gRPC. Messages are plain structs
// carried by a JSON codec registered under the "json" content-subtype.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the slice of services.AuthService the gateway calls.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.Result, error)
	VerifyEmail(ctx context.Context, email, code string) (*services.Result, error)
	Login(ctx context.Context, username, password string) (*services.Result, error)
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

type GRPCServer struct {
	address string
	service AuthService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, svc AuthService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		service: svc,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&authServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

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
