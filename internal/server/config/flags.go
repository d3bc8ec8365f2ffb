package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var boolFlags = []string{"-v", "-y"}

var knownFlags = []string{
	"-a", "-g", "-d", "-s", "-t", "-i", "-v", "-h", "-l",
	"-n", "-y", "-f", "-m", "-u", "-p", "-b", "-r", "-e",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for the in-memory store
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-i string   token issuer
//	-v bool     require a verified email before login
//	-h string   password hash algorithm (argon2id, bcrypt)
//	-l string   verification link base URL
//	-n string   notifier (log, smtp, s3)
//	-y bool     send verification mail asynchronously
//	-f string   mail sender address
//	-m string   SMTP relay address
//	-u string   SMTP user
//	-p string   SMTP password
//	-b string   S3 outbox bucket
//	-r string   S3 region
//	-e string   S3 base endpoint
//
// Only recognised flags are parsed; see flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags, boolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.BoolVar(&config.RequireVerifiedEmailForLogin, "v", config.RequireVerifiedEmailForLogin, "require verified email for login")
	fs.StringVar(&config.PasswordHashAlgorithm, "h", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.StringVar(&config.VerificationBaseURL, "l", config.VerificationBaseURL, "verification link base URL")
	fs.StringVar(&config.Notifier, "n", config.Notifier, "notifier: log, smtp or s3")
	fs.BoolVar(&config.NotifyAsync, "y", config.NotifyAsync, "send verification mail asynchronously")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail sender")
	fs.StringVar(&config.SMTPAddr, "m", config.SMTPAddr, "SMTP relay address")
	fs.StringVar(&config.SMTPUser, "u", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "p", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 outbox bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
