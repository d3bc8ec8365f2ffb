package notify

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// LogNotifier writes the verification link to the log instead of mailing it.
// Intended for development only.
type LogNotifier struct {
	logger  logging.Logger
	baseURL string
}

func NewLogNotifier(logger logging.Logger, baseURL string) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "log_notifier"), baseURL: baseURL}
}

func (n *LogNotifier) SendVerification(ctx context.Context, address, code string) error {
	n.logger.Info(ctx, "verification link", "email", address, "link", VerificationLink(n.baseURL, address, code))
	return nil
}
