package mailer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetverse/internal/notify"
)

type sent struct {
	addr string
	from string
	to   []string
	body string
}

func newTestMailer(conf Config, out *[]sent, err error) *SMTPMailer {
	m := New(conf)
	m.send = func(addr string, _ sasl.Client, from string, to []string, r io.Reader) error {
		data, _ := io.ReadAll(r)
		*out = append(*out, sent{addr: addr, from: from, to: to, body: string(data)})
		return err
	}
	return m
}

func TestSMTPMailer_HandleMailsDecisions(t *testing.T) {
	var out []sent
	m := newTestMailer(Config{Host: "smtp.acme.io", Port: "587", User: "bot@acme.io", From: "noreply@acme.io"}, &out, nil)

	approved := notify.NewEvent(notify.EventRequestApproved, "hr@acme.io", "Laptop approved")
	approved.Recipients = []string{"emp@acme.io"}
	submitted := notify.NewEvent(notify.EventRequestSubmitted, "emp@acme.io", "new request")
	submitted.Recipients = []string{"hr@acme.io"}

	require.NoError(t, m.Handle(context.Background(), []notify.Event{approved, submitted}))

	require.Len(t, out, 1)
	assert.Equal(t, "smtp.acme.io:587", out[0].addr)
	assert.Equal(t, "noreply@acme.io", out[0].from)
	assert.Equal(t, []string{"emp@acme.io"}, out[0].to)
	assert.Contains(t, out[0].body, "Subject: AssetVerse - Your asset request was approved")
	assert.Contains(t, out[0].body, "Laptop approved")
}

func TestSMTPMailer_SkipsWhenNotConfigured(t *testing.T) {
	var out []sent
	m := newTestMailer(Config{}, &out, nil)

	require.NoError(t, m.Send("emp@acme.io", "hi", "body"))
	assert.Empty(t, out)
}

func TestSMTPMailer_ReportsFailures(t *testing.T) {
	var out []sent
	m := newTestMailer(Config{Host: "smtp.acme.io", Port: "587", User: "bot@acme.io"}, &out, errors.New("connection refused"))

	removed := notify.NewEvent(notify.EventEmployeeRemoved, "hr@acme.io", "removed")
	removed.Recipients = []string{"emp@acme.io"}

	err := m.Handle(context.Background(), []notify.Event{removed})
	assert.Error(t, err)
	assert.Equal(t, "bot@acme.io", out[0].from)
}
