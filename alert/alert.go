// Package alert emails the operators when a destructive account
// operation is about to be submitted.
package alert

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
)

// Mailer sends alert emails through the configured SMTP relay
type Mailer struct {
	from      string
	to        []string
	serverURL string
	auth      smtp.Auth
}

// NewMailer builds a mailer from the alert config, nil when alerting
// is disabled
func NewMailer() *Mailer {
	config := params.GetAlertConfig()
	if config == nil {
		return nil
	}
	mailer := &Mailer{
		from:      config.From,
		to:        config.To,
		serverURL: net.JoinHostPort(config.SMTPHost, fmt.Sprintf("%d", config.SMTPPort)),
	}
	if config.Username != "" {
		mailer.auth = smtp.PlainAuth("", config.Username, config.Password, config.SMTPHost)
	}
	return mailer
}

// DestructiveAction notifies the operators that an operation which can
// lock an account out is being submitted. Sending happens in the
// background, a failed delivery never blocks the submission.
func (m *Mailer) DestructiveAction(network, account, txType string) {
	subject := fmt.Sprintf("[%v] destructive operation: %v", params.GetIdentifier(), txType)
	content := fmt.Sprintf(
		"A %v transaction for account %v is being submitted on %v at %v.\n\n"+
			"This operation can restrict access to the account. If this was not "+
			"expected, investigate immediately.\n",
		txType, account, network, time.Now().UTC().Format(time.RFC3339))
	go func() {
		if err := m.send(subject, content); err != nil {
			log.Warn("send alert email failed", "txType", txType, "account", account, "err", err)
		}
	}()
}

func (m *Mailer) send(subject, content string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = m.to
	e.Subject = subject
	e.Text = []byte(content)
	return e.Send(m.serverURL, m.auth)
}
