package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, "gophauth", c.TokenIssuer)
	assert.False(t, c.RequireVerifiedEmailForLogin)
	assert.Equal(t, "argon2id", c.PasswordHashAlgorithm)
	assert.Equal(t, "http://localhost:8080/api/auth/verifyEmail", c.VerificationBaseURL)
	assert.Equal(t, NotifierLog, c.Notifier)
	assert.False(t, c.NotifyAsync)
	assert.Equal(t, 10*time.Second, c.NotifyTimeout)
	assert.Equal(t, "mail-outbox", c.S3Bucket)
}

func TestLoadConfig_DefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"gophauth"}

	c := LoadConfig()
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http": ":9000",
		"secret_key":         "from-json",
	})
	os.Args = []string{"gophauth", "-c", path, "-s", "from-flag"}

	c := LoadConfig()

	assert.Equal(t, ":9000", c.EndpointAddrHTTP)
	assert.Equal(t, "from-flag", c.SecretKey)
}
