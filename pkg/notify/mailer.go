package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"autoblog-go/pkg/logger"
)

// SMTPConfig configures the notification mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Notifier delivers a run report to the operator.
type Notifier interface {
	Notify(report RunReport) error
}

type smtpNotifier struct {
	config SMTPConfig
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
	log    *logger.Logger
}

// NewSMTPNotifier creates a notifier that sends the run report as an HTML
// email over authenticated SMTP.
func NewSMTPNotifier(config SMTPConfig) (Notifier, error) {
	if config.Host == "" || config.From == "" || len(config.To) == 0 {
		return nil, fmt.Errorf("smtp host, from address and recipients are required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	return &smtpNotifier{
		config: config,
		send:   smtp.SendMail,
		log:    logger.GetLogger().WithComponent("notifier"),
	}, nil
}

func (n *smtpNotifier) Notify(report RunReport) error {
	html, err := report.HTML()
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("자동 포스팅 결과: 성공 %d건 / 실패 %d건",
		len(report.Published), len(report.Failed))
	msg := buildMessage(n.config.From, n.config.To, subject, html)

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	if err := n.send(addr, auth, n.config.From, n.config.To, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.log.WithField("recipients", len(n.config.To)).Info("Run report sent")
	return nil
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
