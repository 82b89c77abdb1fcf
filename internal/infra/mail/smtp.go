package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
)

var verificationTemplate = template.Must(template.New("verify").Parse(`<p>Hi {{.Name}},</p>
<p>Confirm your email address to start shopping:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in 7 days.</p>
`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends account mail through a plain SMTP relay.
type SMTPMailer struct {
	addr     string
	from     string
	fromName string
	send     sendFunc
}

func NewSMTPMailer(host, port, from string) *SMTPMailer {
	return &SMTPMailer{
		addr:     net.JoinHostPort(host, port),
		from:     from,
		fromName: "Storefront Accounts",
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, struct{ Name, Link string }{name, link}); err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	msg := m.message(to, "Verify your email address", body.String())
	if err := m.send(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.addr, err)
	}
	return nil
}

func (m *SMTPMailer) message(to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
