package services

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/POS-Ninjas/backend/internal/config"
)

// SMTPSender — отправка через обычный SMTP (дефолтный MAIL_DRIVER).
type SMTPSender struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &SMTPSender{
		auth: auth,
		from: cfg.SMTPUser,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *SMTPSender) SendPasswordReset(_ context.Context, toEmail, firstName, resetLink string) error {
	subject := "POS Ninjas POS: Reset Your Password"
	body := fmt.Sprintf(
		"You requested to reset your password, %s.\r\n\r\n"+
			"Follow this link to reset your password: %s\r\n\r\n"+
			"If it wasn't you, please ignore this message.\r\n",
		firstName, resetLink,
	)
	return s.send([]string{toEmail}, subject, body)
}

func (s *SMTPSender) send(to []string, subject, body string) error {
	msg := []byte("Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}
