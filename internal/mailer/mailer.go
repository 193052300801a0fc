// Package mailer delivers email over SMTP. Delivery is fire-and-forget from
// the caller's perspective: failures are logged, never propagated into the
// operation that triggered the send.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/core"
)

// SMTPMailer sends HTML mail through a single SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(server string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, server)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", server, port),
		auth: auth,
		from: from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String()))
}

var _ core.Mailer = (*SMTPMailer)(nil)

// LogMailer logs instead of sending. Used in development when no SMTP
// server is configured.
type LogMailer struct {
	log *zap.SugaredLogger
}

func NewLogMailer(log *zap.SugaredLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.log.Infow("mail not sent (no SMTP configured)", "to", to, "subject", subject)
	return nil
}

var _ core.Mailer = (*LogMailer)(nil)

// VerificationEmail renders the subject and body of the verify-your-email
// message pointing at the frontend confirmation page.
func VerificationEmail(frontendURL, token string) (subject, body string) {
	const projectName = "Astrological AI Assistant"
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", frontendURL, token)

	subject = fmt.Sprintf("%s - Verify your email", projectName)
	body = fmt.Sprintf(`
		<html>
		<body>
			<p>Hi,</p>
			<p>Welcome to %s!</p>
			<p>Please verify your email by clicking on the link below:</p>
			<p><a href="%s">%s</a></p>
			<p>If you didn't request this email, you can safely ignore it.</p>
			<p>Thanks,</p>
			<p>The %s Team</p>
		</body>
		</html>
	`, projectName, verificationURL, verificationURL, projectName)
	return subject, body
}
