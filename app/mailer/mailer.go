// Package mailer is the delivery channel: it hands the rendered digest to an
// SMTP server as a multipart/alternative message for a fixed recipient list.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

type Mailer interface {
	Send(ctx context.Context, subject, htmlBody, textBody string) error
}

type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	senderEmail string
	senderName  string
	recipients  []string
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(host string, port int, username, password, senderEmail, senderName string, recipients []string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		senderEmail: senderEmail,
		senderName:  senderName,
		recipients:  recipients,
	}
}

// Send delivers one message. smtp.SendMail upgrades to TLS via STARTTLS when
// the server offers it; the context is only consulted before dialing since
// the underlying API has no cancellation support.
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildMessage(subject, htmlBody, textBody)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.senderEmail, m.recipients, msg); err != nil {
		return fmt.Errorf("failed to send digest via %s: %w", addr, err)
	}

	return nil
}

func (m *SMTPMailer) buildMessage(subject, htmlBody, textBody string) ([]byte, error) {
	from := mail.Address{Name: m.senderName, Address: m.senderEmail}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	headers := []struct{ key, value string }{
		{"From", from.String()},
		{"To", strings.Join(m.recipients, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `multipart/alternative; boundary="` + writer.Boundary() + `"`},
	}

	var msg bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h.key, h.value)
	}
	msg.WriteString("\r\n")

	// Plain text part first so HTML-capable clients prefer the later part.
	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := textPart.Write([]byte(textBody)); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", "text/html; charset=UTF-8")
	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, fmt.Errorf("failed to write html part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	msg.Write(buf.Bytes())
	return msg.Bytes(), nil
}
