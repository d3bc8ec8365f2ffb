package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails the verification link through an SMTP relay.
type SMTPNotifier struct {
	addr     string
	from     string
	baseURL  string
	auth     smtp.Auth
	sendMail sendMailFunc
}

// NewSMTPNotifier uses PLAIN auth when user is set, otherwise none.
func NewSMTPNotifier(addr, from, user, password, baseURL string) *SMTPNotifier {
	n := &SMTPNotifier{
		addr:     addr,
		from:     from,
		baseURL:  baseURL,
		sendMail: smtp.SendMail,
	}
	if user != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		n.auth = smtp.PlainAuth("", user, password, host)
	}
	return n
}

// SendVerification honours ctx cancellation but cannot abort a send in flight.
func (n *SMTPNotifier) SendVerification(ctx context.Context, address, code string) error {
	msg := NewVerificationMessage(n.from, address, VerificationLink(n.baseURL, address, code))

	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(n.addr, n.auth, n.from, []string{address}, msg.Bytes())
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
