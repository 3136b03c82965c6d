package email

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/config"
	mail "github.com/xhit/go-simple-mail/v2"
)

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
	// Username is set when the sender was logged in.
	Username string
}

// NotificationService delivers contact messages to the operator.
type NotificationService struct {
	config *config.EmailConfig
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig) *NotificationService {
	if cfg == nil {
		cfg = &config.EmailConfig{}
	}
	return &NotificationService{
		config: cfg,
	}
}

// Enabled reports whether messages are actually sent.
func (n *NotificationService) Enabled() bool {
	return n.config.Enabled && n.config.ContactAddress != ""
}

// SendContactMessage forwards msg to the configured contact address. When
// email is disabled the message is only logged (without its body) and nil is
// returned.
func (n *NotificationService) SendContactMessage(msg ContactMessage) error {
	if !n.Enabled() {
		log.Info("Contact message received, email delivery disabled", "from", msg.Email, "name", msg.Name)
		return nil
	}

	subject := fmt.Sprintf("[clanhub] Contact message from %s", msg.Name)
	return n.sendEmail(n.config.ContactAddress, msg.Email, subject, contactBody(msg))
}

func contactBody(msg ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	if msg.Username != "" {
		fmt.Fprintf(&b, "Account: %s\n", msg.Username)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}

// sendEmail sends an email using go-simple-mail library.
func (n *NotificationService) sendEmail(to, replyTo, subject, body string) error {
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
		fromName = "clanhub"
	}
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	if replyTo != "" {
		email.SetReplyTo(replyTo)
	}
	email.SetSubject(subject)
	email.SetBody(mail.TextPlain, body)

	if email.Error != nil {
		return fmt.Errorf("failed to build email: %w", email.Error)
	}

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Contact message forwarded", "to", to)
	return nil
}
