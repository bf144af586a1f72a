package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

var dispatchFailedTmpl = template.Must(template.ParseFS(templates, "templates/dispatch_failed.html"))

// NewEmailSender returns a sender that alerts the operator at to. It is a
// no-op when to is empty.
func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m)
	}
	return s
}

// SendDispatchFailed tells the operator that a run could not be handed to
// the workflow engine.
func (s *EmailSender) SendDispatchFailed(run *entity.ActionRun, sheetName, reason string) error {
	if s.To == "" {
		return nil
	}

	m, err := s.buildDispatchFailed(DispatchFailedData{
		RunID:     run.ID,
		SheetID:   run.SheetID,
		SheetName: sheetName,
		UserID:    run.UserID,
		Action:    run.Action,
		Rows:      len(run.RowIDs),
		Reason:    reason,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := s.send(m); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildDispatchFailed(data DispatchFailedData) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := dispatchFailedTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render alert template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("[lead-outreach] dispatch failed for run %s", data.RunID))
	m.SetBody("text/html", body.String())
	return m, nil
}
