package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	m := buildWelcome(s.senderEmail, s.senderName, s.frontendURL, toEmail, name)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome email to %s: %w", toEmail, err)
	}
	return nil
}

func buildWelcome(from, fromName, frontendURL, toEmail, name string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, fromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to Notekeeper")

	m.SetBody("text/html", welcomeBody(name, frontendURL))
	return m
}

func welcomeBody(name, frontendURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready. Start writing your first note:</p>
			<a href="%s/dashboard" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open my notes</a>
		</div>
	`, html.EscapeString(name), frontendURL)
}
