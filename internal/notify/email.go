// Package notify sends lead notification emails to sales over a pooled
// SMTP connection. Implements submission.Notifier.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/knadh/smtppool"

	"github.com/formward/formward/internal/core/config"
	"github.com/formward/formward/internal/types"
)

const (
	maxConns    = 2
	sendTimeout = 15 * time.Second
)

// EmailNotifier delivers submission notifications via SMTP.
type EmailNotifier struct {
	pool *smtppool.Pool
	from string
	to   []string
}

// NewEmailNotifier opens the SMTP connection pool. password may be empty
// for unauthenticated relays.
func NewEmailNotifier(cfg config.SMTPConfig, password string) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host not configured")
	}
	if cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("smtp from and to addresses must be configured")
	}

	var auth smtp.Auth
	if cfg.Username != "" && password != "" {
		auth = smtp.PlainAuth("", cfg.Username, password, cfg.Host)
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        maxConns,
		IdleTimeout:     sendTimeout,
		PoolWaitTimeout: sendTimeout,
		TLSConfig:       &tls.Config{ServerName: cfg.Host},
		Auth:            auth,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting smtp pool: %w", err)
	}

	return &EmailNotifier{pool: pool, from: cfg.From, to: cfg.To}, nil
}

// SubmissionReceived mails a plain-text lead summary to sales.
func (n *EmailNotifier) SubmissionReceived(ctx context.Context, formID types.FormID, rec *types.SubmissionRecord) error {
	subject := fmt.Sprintf("New assessment submission: %s (%s)", rec.CompanyName, rec.ContactName)
	if err := n.pool.Send(smtppool.Email{
		From:    n.from,
		To:      n.to,
		Subject: subject,
		Text:    []byte(renderBody(rec)),
	}); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

// Close tears down the connection pool.
func (n *EmailNotifier) Close() {
	n.pool.Close()
}

func renderBody(rec *types.SubmissionRecord) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Name", rec.ContactName)
	line("Email", rec.ContactEmail)
	line("Phone", rec.ContactPhone)
	line("Company", rec.CompanyName)
	line("Company size", rec.CompanySize)
	line("Industry", rec.Industry)
	line("Challenges", strings.Join(rec.CurrentChallenges, ", "))
	line("Automation interest", strings.Join(rec.AutomationInterest, ", "))
	line("Current tools", strings.Join(rec.CurrentTools, ", "))
	line("Budget", rec.BudgetRange)
	line("Timeline", rec.Timeline)
	line("Goals", rec.Goals)
	line("Additional info", rec.AdditionalInfo)
	return b.String()
}
