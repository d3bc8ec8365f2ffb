// Package notify delivers account verification messages.
//
// Delivery is best effort: callers log a returned error and carry on.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const VerificationSubject = "Verification Code"

// Notifier sends a verification code to an address.
type Notifier interface {
	SendVerification(ctx context.Context, address, code string) error
}

// VerificationLink appends emailCode and email query parameters to base.
func VerificationLink(base, email, code string) string {
	q := url.Values{}
	q.Set("emailCode", code)
	q.Set("email", email)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// Message is a plain text e-mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
	Date    time.Time
}

func NewVerificationMessage(from, to, link string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: VerificationSubject,
		Body:    fmt.Sprintf("Please verify your email address by visiting the link below:\r\n\r\n%s\r\n", link),
		Date:    time.Now().UTC(),
	}
}

// Bytes renders m in RFC 5322 form with CRLF line endings.
func (m Message) Bytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", m.Date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
