package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"assetverse/internal/notify"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	TLS      bool
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPMailer emails employees about decisions on their requests and membership.
type SMTPMailer struct {
	conf Config
	send sendFunc
}

var _ notify.Sink = (*SMTPMailer)(nil)

// New creates a mailer. Without host or user it logs and skips every message.
func New(conf Config) *SMTPMailer {
	m := &SMTPMailer{conf: conf, send: smtp.SendMail}
	if conf.TLS {
		m.send = smtp.SendMailTLS
	}
	return m
}

func (m *SMTPMailer) configured() bool {
	return m.conf.Host != "" && m.conf.Port != "" && m.conf.User != ""
}

func (m *SMTPMailer) sender() string {
	if m.conf.From != "" {
		return m.conf.From
	}
	return m.conf.User
}

// Name implements notify.Sink.
func (m *SMTPMailer) Name() string { return "smtp" }

// Handle implements notify.Sink. Only employee-facing events are mailed.
func (m *SMTPMailer) Handle(_ context.Context, events []notify.Event) error {
	var failed int
	for _, event := range events {
		subject, ok := subjects[event.Type]
		if !ok || len(event.Recipients) == 0 {
			continue
		}
		for _, to := range event.Recipients {
			if err := m.Send(to, subject, event.Message); err != nil {
				failed++
			}
		}
	}
	if failed > 0 {
		return errors.Errorf("%d notification mails not sent", failed)
	}
	return nil
}

var subjects = map[notify.EventType]string{
	notify.EventRequestApproved: "Your asset request was approved",
	notify.EventRequestRejected: "Your asset request was rejected",
	notify.EventEmployeeRemoved: "You were removed from your company",
}

// Send delivers a plain text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	logger := log.WithField("to", to)
	if !m.configured() {
		logger.Debug("smtp not configured, mail skipped")
		return nil
	}

	auth := sasl.NewPlainClient("", m.conf.User, m.conf.Password)
	err := m.send(m.conf.Host+":"+m.conf.Port, auth, m.sender(), []string{to}, buildMessage(m.sender(), to, subject, body))
	if err != nil {
		logger.WithError(err).Error("mail not sent")
		return errors.Wrap(err, "send mail")
	}
	logger.Info("mail sent")
	return nil
}

func buildMessage(from, to, subject, body string) io.Reader {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: AssetVerse - %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return &b
}
