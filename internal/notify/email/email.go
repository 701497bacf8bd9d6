package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/aimarketer/aimarketer/internal/config"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/charmbracelet/log"
	mail "github.com/xhit/go-simple-mail/v2"
)

// NotificationService sends an email to the site owner for every new feedback submission.
type NotificationService struct {
	config     *config.EmailConfig
	summaryURL string
}

// FeedbackNotification contains the data for a new feedback email.
type FeedbackNotification struct {
	Feedback   database.Feedback
	SummaryURL string
}

// New creates a new email notification service.
// summaryURL is linked from the email body when not empty.
func New(cfg *config.EmailConfig, summaryURL string) *NotificationService {
	if cfg == nil {
		cfg = &config.EmailConfig{}
	}
	return &NotificationService{
		config:     cfg,
		summaryURL: summaryURL,
	}
}

// Enabled reports whether notifications will actually be sent.
func (n *NotificationService) Enabled() bool {
	return n.config.Enabled
}

// NotifyFeedback sends the notification for a stored feedback submission.
func (n *NotificationService) NotifyFeedback(feedback database.Feedback) error {
	if !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping notification")
		return nil
	}

	if n.config.NotifyTo == "" {
		log.Warn("No recipient configured, skipping notification")
		return nil
	}

	subject := fmt.Sprintf("[AIMarketer] New feedback from %s", feedback.Name)

	body, err := n.generateEmailBody(FeedbackNotification{
		Feedback:   feedback,
		SummaryURL: n.summaryURL,
	})
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(n.config.NotifyTo, subject, body)
}

//go:embed templates/*.html
var templatesFS embed.FS

// generateEmailBody creates the HTML email body.
func (n *NotificationService) generateEmailBody(notification FeedbackNotification) (string, error) {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "feedback.html", notification); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// sendEmail sends an email using go-simple-mail library.
func (n *NotificationService) sendEmail(to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	if n.config.UseSSL {
		server.Encryption = mail.EncryptionSSLTLS
	} else if n.config.UseTLS {
		server.Encryption = mail.EncryptionSTARTTLS
	} else {
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	email := mail.NewMSG()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "AIMarketer"
	}
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if email.Error != nil {
		return fmt.Errorf("failed to build email: %w", email.Error)
	}

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Feedback notification sent", "to", to, "subject", subject)
	return nil
}
