// Package config handles configuration for the gophauth server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Notifier kinds accepted by Config.Notifier.
const (
	NotifierLog  = "log"
	NotifierSMTP = "smtp"
	NotifierS3   = "s3"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the two gateways.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - TokenValidityDuration / TokenIssuer: lifetime and "iss" of issued tokens.
//   - RequireVerifiedEmailForLogin: refuse tokens to accounts that never verified.
//   - PasswordHashAlgorithm: "argon2id" or "bcrypt" for new hashes.
//   - VerificationBaseURL: link embedded into verification mails.
//   - Notifier, NotifyAsync, NotifyTimeout: how verification mail is sent.
//   - MailFrom, SMTP*: sender and relay for the smtp notifier.
//   - S3*: outbox bucket for the s3 notifier.
type Config struct {
	EndpointAddrHTTP             string
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	SecretKey                    string
	TokenValidityDuration        time.Duration
	TokenIssuer                  string
	RequireVerifiedEmailForLogin bool
	PasswordHashAlgorithm        string
	VerificationBaseURL          string
	Notifier                     string
	NotifyAsync                  bool
	NotifyTimeout                time.Duration
	MailFrom                     string
	SMTPAddr                     string
	SMTPUser                     string
	SMTPPassword                 string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 60 * time.Minute
	c.TokenIssuer = "gophauth"
	c.RequireVerifiedEmailForLogin = false
	c.PasswordHashAlgorithm = "argon2id"
	c.VerificationBaseURL = "http://localhost:8080/api/auth/verifyEmail"
	c.Notifier = NotifierLog
	c.NotifyAsync = false
	c.NotifyTimeout = 10 * time.Second
	c.MailFrom = "noreply@gophauth.local"
	c.SMTPAddr = "localhost:25"
	c.SMTPUser = ""
	c.SMTPPassword = ""
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "mail-outbox"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
