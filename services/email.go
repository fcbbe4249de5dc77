package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"social-publisher-platform/internal/config"
)

type EmailSender interface {
	SendExpiryAlert(recipient string, data ExpiryAlertData) error
}

type SMTPEmailSender struct {
	config config.Config
}

type ExpiryAlertData struct {
	UserName     string
	PlatformName string
	ExpiryDate   time.Time
	DaysLeft     int
}

func NewSMTPEmailSender(cfg config.Config) *SMTPEmailSender {
	return &SMTPEmailSender{config: cfg}
}

// SendExpiryAlert notifies the user that a platform access token is about
// to expire. Configured admin addresses are CC'd.
func (s *SMTPEmailSender) SendExpiryAlert(recipient string, data ExpiryAlertData) error {
	recipients := []string{}
	if recipient != "" {
		recipients = append(recipients, recipient)
	}
	for _, adminEmail := range s.config.AdminEmails {
		if strings.TrimSpace(adminEmail) != "" {
			recipients = append(recipients, strings.TrimSpace(adminEmail))
		}
	}

	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured for expiry alert")
	}

	subject, htmlBody, textBody, err := s.generateExpiryContent(data)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	return s.sendEmail(recipients, subject, htmlBody, textBody)
}

func (s *SMTPEmailSender) generateExpiryContent(data ExpiryAlertData) (subject, htmlBody, textBody string, err error) {
	subjectTpl := "{{.PlatformName}} access token expires in {{.DaysLeft}} days"

	subjectT, _ := template.New("subject").Parse(subjectTpl)
	htmlT, _ := template.New("html").Parse(expiryHTMLTemplate)
	textT, _ := template.New("text").Parse(expiryTextTemplate)

	var subjectBuf, htmlBuf, textBuf bytes.Buffer

	if err := subjectT.Execute(&subjectBuf, data); err != nil {
		return "", "", "", err
	}
	if err := htmlT.Execute(&htmlBuf, data); err != nil {
		return "", "", "", err
	}
	if err := textT.Execute(&textBuf, data); err != nil {
		return "", "", "", err
	}

	return subjectBuf.String(), htmlBuf.String(), textBuf.String(), nil
}

func (s *SMTPEmailSender) sendEmail(recipients []string, subject, htmlBody, textBody string) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain; charset=UTF-8

%s

--boundary123
Content-Type: text/html; charset=UTF-8

%s

--boundary123--`,
		s.config.SMTPFrom,
		strings.Join(recipients, ", "),
		subject,
		textBody,
		htmlBody)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.SMTPFrom, recipients, []byte(message))
}

const expiryHTMLTemplate = `<html><body>
<h2>Access Token Expiring Soon</h2>
<p>Hello {{.UserName}},</p>
<p>Your <strong>{{.PlatformName}}</strong> access token expires on <strong>{{.ExpiryDate.Format "Jan 2, 2006"}}</strong> ({{.DaysLeft}} days from now).</p>
<p>Publishing to {{.PlatformName}} will stop working once the token expires. Please generate a new token and update it in the Credential Vault.</p>
</body></html>`

const expiryTextTemplate = `Access Token Expiring Soon

Hello {{.UserName}},

Your {{.PlatformName}} access token expires on {{.ExpiryDate.Format "Jan 2, 2006"}} ({{.DaysLeft}} days from now).

Publishing to {{.PlatformName}} will stop working once the token expires. Please generate a new token and update it in the Credential Vault.`
