package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestInterceptor_UnprotectedAllowsWithoutToken(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakeService{})

	info := &grpc.UnaryServerInfo{FullMethod: methodLogin}
	handlerCalled := false
	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_Protected(t *testing.T) {
	alice := &models.Principal{Username: "alice@x.com"}

	tests := []struct {
		name    string
		token   string
		authErr error
		message string
	}{
		{"missing token", "", nil, "missing token"},
		{"invalid token", "bad", common.ErrInvalidToken, "invalid token"},
		{"expired token", "old", common.ErrTokenExpired, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGRPCServer("", logging.Nop{}, &fakeService{authErr: tt.authErr, principal: alice})

			ctx := context.Background()
			if tt.token != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.AccessTokenHeaderName, tt.token))
			}
			h := func(ctx context.Context, req any) (any, error) {
				t.Fatal("handler should not be called")
				return nil, nil
			}

			_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: methodMe}, h)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Equal(t, tt.message, status.Convert(err).Message())
		})
	}
}

func TestInterceptor_ProtectedStoresPrincipal(t *testing.T) {
	alice := &models.Principal{Username: "alice@x.com"}
	s := NewGRPCServer("", logging.Nop{}, &fakeService{principal: alice})

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, "tkn"))
	h := func(ctx context.Context, req any) (any, error) {
		p, ok := principalFromContext(ctx)
		require.True(t, ok)
		return p, nil
	}

	resp, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: methodMe}, h)
	require.NoError(t, err)
	assert.Same(t, alice, resp)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakeService{})

	wantErr := status.Error(codes.NotFound, "x")
	_, err := s.loggingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: methodLogin},
		func(ctx context.Context, req any) (any, error) { return nil, wantErr })
	assert.Equal(t, wantErr, err)
}
