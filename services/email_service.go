package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Dosada05/tournament-registration/config"
	"github.com/Dosada05/tournament-registration/models"
)

// Mailer отправляет участнику подтверждение регистрации.
type Mailer interface {
	SendRegistrationConfirmation(entrant *models.Entrant) error
}

type EmailService struct {
	cfg *config.Config
}

// NewEmailService returns nil when SMTP is not configured; callers treat nil as "no mail".
func NewEmailService(cfg *config.Config) *EmailService {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsconfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("smtp RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close DATA: %w", err)
	}
	return nil
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<p>Hi {{.Name}},</p>
<p>You are registered for <strong>{{.CategoryLabel}}</strong>.</p>
<p>Entry fee paid: &pound;{{.Fee}} (payment reference {{.PaymentReference}}).</p>
<p>Fixtures will be published once registration closes.</p>`))

// RenderConfirmation builds the HTML body of the confirmation e-mail.
func RenderConfirmation(entrant *models.Entrant) (string, error) {
	data := struct {
		Name             string
		CategoryLabel    string
		Fee              int
		PaymentReference string
	}{
		Name:             entrant.Name,
		CategoryLabel:    categoryLabel(entrant.Category),
		Fee:              entrant.Fee,
		PaymentReference: entrant.PaymentReference,
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render confirmation e-mail: %w", err)
	}
	return body.String(), nil
}

func (s *EmailService) SendRegistrationConfirmation(entrant *models.Entrant) error {
	body, err := RenderConfirmation(entrant)
	if err != nil {
		return err
	}
	return s.SendEmail([]string{entrant.Email}, "Tournament registration confirmed", body)
}

func categoryLabel(c models.Category) string {
	switch c {
	case models.CategorySingles:
		return "Singles"
	case models.CategoryDoubles:
		return "Doubles"
	case models.CategoryBoth:
		return "Singles and Doubles"
	}
	return string(c)
}
