package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.PasswordHashAlgorithm = "bcrypt"
	return cfg
}

func TestNewNotifier(t *testing.T) {
	tests := []struct {
		kind string
		want any
	}{
		{config.NotifierLog, &notify.LogNotifier{}},
		{"", &notify.LogNotifier{}},
		{config.NotifierSMTP, &notify.SMTPNotifier{}},
		{config.NotifierS3, &notify.S3Notifier{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg := testConfig()
			cfg.Notifier = tt.kind

			n, err := newNotifier(context.Background(), cfg, logging.Nop{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, n)
		})
	}
}

func TestNewNotifier_Unknown(t *testing.T) {
	cfg := testConfig()
	cfg.Notifier = "pigeon"

	_, err := newNotifier(context.Background(), cfg, logging.Nop{})
	assert.ErrorContains(t, err, `unknown notifier "pigeon"`)
}

func TestNewApp_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.PasswordHashAlgorithm = "md5"

	_, err := newApp(context.Background(), cfg, logging.Nop{}, repomanager.NewInMemoryRepositoryManager())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Notifier = "pigeon"
	_, err = newApp(context.Background(), cfg, logging.Nop{}, repomanager.NewInMemoryRepositoryManager())
	assert.ErrorContains(t, err, "notifier init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
