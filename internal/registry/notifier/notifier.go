// Package notifier tells the registry owner about new activations.
package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ordercard/internal/config"
	"ordercard/internal/domain"
)

const timestampLayout = "1/2/2006, 3:04:05 PM"

// headerBreaks folds line breaks out of header values so that no value, the
// client-supplied company included, can start a header of its own.
var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headerValue(s string) string {
	return headerBreaks.Replace(s)
}

// Subject and Body build the activation notice.
func Subject(red domain.Redemption) string {
	return "New Jewelry App Activation: " + red.Company
}

func Body(red domain.Redemption) string {
	var b strings.Builder
	b.WriteString("A new user has activated the Jewelry Order Creator app.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", red.Name)
	fmt.Fprintf(&b, "Company: %s\n", red.Company)
	fmt.Fprintf(&b, "Mobile: %s\n", red.Mobile)
	fmt.Fprintf(&b, "Activation Code Used: %s\n\n", red.Code)
	fmt.Fprintf(&b, "Timestamp: %s", red.RedeemedAt.Format(timestampLayout))
	return b.String()
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails each activation to a fixed recipient.
type SMTPNotifier struct {
	addr      string
	auth      smtp.Auth
	from      string
	recipient string
	send      sendMailFunc
}

func NewSMTPNotifier(cfg config.NotificationConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPNotifier{
		addr:      net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:      auth,
		from:      from,
		recipient: cfg.Recipient,
		send:      smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(_ context.Context, red domain.Redemption) error {
	msg := "From: " + headerValue(n.from) + "\r\n" +
		"To: " + headerValue(n.recipient) + "\r\n" +
		"Subject: " + headerValue(Subject(red)) + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		strings.ReplaceAll(Body(red), "\n", "\r\n")

	if err := n.send(n.addr, n.auth, n.from, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("sending activation mail: %w", err)
	}
	return nil
}

// LogNotifier records the notice in the structured log instead of mailing it.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, red domain.Redemption) error {
	n.logger.Info(Subject(red),
		zap.String("name", red.Name),
		zap.String("company", red.Company),
		zap.String("mobile", red.Mobile),
		zap.String("code", red.Code),
		zap.Time("redeemedAt", red.RedeemedAt),
	)
	return nil
}

// Notifier is satisfied by both implementations.
type Notifier interface {
	Notify(ctx context.Context, red domain.Redemption) error
}

// New picks SMTP when a host and recipient are configured, the log otherwise.
func New(cfg config.NotificationConfig, logger *zap.Logger) Notifier {
	if cfg.SMTPHost != "" && cfg.Recipient != "" {
		logger.Info("activation notices go by mail", zap.String("recipient", cfg.Recipient))
		return NewSMTPNotifier(cfg)
	}
	return NewLogNotifier(logger)
}
