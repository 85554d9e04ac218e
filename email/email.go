package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/models"
)

// Mailer sends the two contact-form emails. Both are best-effort; callers
// log failures but never fail the request over them.
type Mailer interface {
	SendContactNotification(msg *models.ContactMessage) error
	SendAcknowledgment(msg *models.ContactMessage) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay. When no SMTP user
// is configured, every send is a silent no-op so local development works
// without a mail account.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       string
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		to:       cfg.EmailTo,
	}
}

func (m *SMTPMailer) configured() bool {
	return m.user != "" && m.password != "" && m.to != ""
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>New contact message</h2>
  <p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
  {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p>{{.Message}}</p>
  <p style="color: #999; font-size: 12px;">Received {{.CreatedAt.Format "Jan 02, 2006 at 3:04 PM"}} via the portfolio contact form.</p>
</body>
</html>`))

var acknowledgmentTmpl = template.Must(template.New("acknowledgment").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Thanks for reaching out</h2>
  <p>Hi {{.Name}},</p>
  <p>Your message "{{.Subject}}" was received. You'll hear back as soon as possible.</p>
</body>
</html>`))

// SendContactNotification mails the portfolio owner about a new submission.
func (m *SMTPMailer) SendContactNotification(msg *models.ContactMessage) error {
	if !m.configured() {
		return nil
	}
	subject := fmt.Sprintf("New contact form submission: %s", msg.Subject)
	return m.send(m.to, subject, notificationTmpl, msg)
}

// SendAcknowledgment mails the sender a receipt confirmation.
func (m *SMTPMailer) SendAcknowledgment(msg *models.ContactMessage) error {
	if !m.configured() {
		return nil
	}
	return m.send(msg.Email, "Thank you for your message", acknowledgmentTmpl, msg)
}

func (m *SMTPMailer) send(to, subject string, tmpl *template.Template, msg *models.ContactMessage) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n"
	payload := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n%s\r\n%s",
		to, m.from, subject, mime, body.String())

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(payload)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Printf("email: sent %q to %s", subject, to)
	return nil
}
