package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from an explicit zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	TokenValidityDuration        *timex.Duration `json:"token_validity_duration"`
	TokenIssuer                  *string         `json:"token_issuer"`
	RequireVerifiedEmailForLogin *bool           `json:"require_verified_email_for_login"`
	PasswordHashAlgorithm        *string         `json:"password_hash_algorithm"`
	VerificationBaseURL          *string         `json:"verification_base_url"`
	Notifier                     *string         `json:"notifier"`
	NotifyAsync                  *bool           `json:"notify_async"`
	NotifyTimeout                *timex.Duration `json:"notify_timeout"`
	MailFrom                     *string         `json:"mail_from"`
	SMTPAddr                     *string         `json:"smtp_addr"`
	SMTPUser                     *string         `json:"smtp_user"`
	SMTPPassword                 *string         `json:"smtp_password"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Without the flag nothing is loaded. An unreadable or invalid file panics,
// as a half-configured auth server must not start.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.TokenIssuer, c.TokenIssuer)
	if c.RequireVerifiedEmailForLogin != nil {
		config.RequireVerifiedEmailForLogin = *c.RequireVerifiedEmailForLogin
	}
	setString(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setString(&config.VerificationBaseURL, c.VerificationBaseURL)
	setString(&config.Notifier, c.Notifier)
	if c.NotifyAsync != nil {
		config.NotifyAsync = *c.NotifyAsync
	}
	if c.NotifyTimeout != nil {
		config.NotifyTimeout = c.NotifyTimeout.Duration
	}
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SMTPAddr, c.SMTPAddr)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
