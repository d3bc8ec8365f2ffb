package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "gophauth.Auth"

	methodRegister    = "/" + ServiceName + "/Register"
	methodVerifyEmail = "/" + ServiceName + "/VerifyEmail"
	methodLogin       = "/" + ServiceName + "/Login"
	methodMe          = "/" + ServiceName + "/Me"
)

// AuthServer is implemented by GRPCServer.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
}

// unaryHandler adapts a typed AuthServer method to a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AuthServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(methodRegister, AuthServer.Register)},
		{MethodName: "VerifyEmail", Handler: unaryHandler(methodVerifyEmail, AuthServer.VerifyEmail)},
		{MethodName: "Login", Handler: unaryHandler(methodLogin, AuthServer.Login)},
		{MethodName: "Me", Handler: unaryHandler(methodMe, AuthServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/auth.json",
}

// AuthClient is a minimal client for the JSON-coded Auth service.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, methodRegister, in, opts...)
}

func (c *AuthClient) VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, methodVerifyEmail, in, opts...)
}

func (c *AuthClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, methodLogin, in, opts...)
}

func (c *AuthClient) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, methodMe, in, opts...)
}
