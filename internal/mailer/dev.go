package mailer

import (
	"fmt"
	"time"

	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// DevMailer logs emails instead of sending them. Used when EMAIL_DEV_MODE is
// on or no provider credential is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (m *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: email not sent",
		"to", toEmail,
		"to_name", toName,
		"subject", subject,
		"text", text,
	)
	return fmt.Sprintf("dev-%d", time.Now().UnixNano()), nil
}

var _ Service = (*DevMailer)(nil)
