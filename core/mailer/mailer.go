package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"studio-api/core/config"
	"studio-api/core/logger"
)

type Mailer interface {
	SendMemberInvite(to, memberName, companyName, inviteURL string) error
	SendPasswordOTP(to, code string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

var inviteTemplate = template.Must(template.New("invite").Parse(`
<html><body>
<p>Hi {{.MemberName}},</p>
<p>You have been invited to join <b>{{.CompanyName}}</b> on StudioAPI.</p>
<p><a href="{{.InviteURL}}">Accept the invitation</a></p>
</body></html>
`))

var otpTemplate = template.Must(template.New("otp").Parse(`
<html><body>
<p>Your password reset code is <b>{{.Code}}</b>.</p>
<p>The code expires in 5 minutes. Ignore this email if you did not request it.</p>
</body></html>
`))

func (m *smtpMailer) SendPasswordOTP(to, code string) error {
	if m.cfg.Host == "" {
		logger.Warn("Mailer:SendPasswordOTP:Skipped", "reason", "SMTP not configured", "to", to)
		return nil
	}

	var body bytes.Buffer
	if err := otpTemplate.Execute(&body, map[string]string{"Code": code}); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your password reset code\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, to, body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		logger.Error("Mailer:SendPasswordOTP", "to", to, "error", err)
		return err
	}
	return nil
}

func (m *smtpMailer) SendMemberInvite(to, memberName, companyName, inviteURL string) error {
	if m.cfg.Host == "" {
		logger.Warn("Mailer:SendMemberInvite:Skipped", "reason", "SMTP not configured", "to", to)
		return nil
	}

	var body bytes.Buffer
	err := inviteTemplate.Execute(&body, map[string]string{
		"MemberName":  memberName,
		"CompanyName": companyName,
		"InviteURL":   inviteURL,
	})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: You are invited to %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, to, companyName, body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		logger.Error("Mailer:SendMemberInvite", "to", to, "error", err)
		return err
	}
	return nil
}
