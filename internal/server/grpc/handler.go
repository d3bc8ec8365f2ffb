package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toResponse(res *services.Result) *AuthResponse {
	return &AuthResponse{Message: res.Message, Success: res.Success, Token: res.Token}
}

func (s *GRPCServer) internal(ctx context.Context, err error) error {
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	p := registerPayload{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Password: req.Password}
	if err := p.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.service.Register(ctx, services.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	if !res.Success {
		return nil, status.Error(codes.AlreadyExists, res.Message)
	}
	return toResponse(res), nil
}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*AuthResponse, error) {
	if req.Email == "" || req.EmailCode == "" {
		return nil, status.Error(codes.InvalidArgument, "email and emailCode are required")
	}

	res, err := s.service.VerifyEmail(ctx, req.Email, req.EmailCode)
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	if !res.Success {
		return nil, status.Error(codes.FailedPrecondition, res.Message)
	}
	return toResponse(res), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	res, err := s.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	if !res.Success {
		return nil, status.Error(codes.Unauthenticated, res.Message)
	}
	return toResponse(res), nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*MeResponse, error) {
	p, ok := principalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return &MeResponse{Username: p.Username, Roles: models.RoleNames(p.Roles)}, nil
}
