package mailer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type Mailer struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailer(apiKey, fromName, fromEmail string) (*Mailer, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, fmt.Errorf("mailer requires MAILERSEND_API_KEY and MAIL_FROM_EMAIL")
	}
	return &Mailer{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}, nil
}

func (m *Mailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	if strings.TrimSpace(toEmail) == "" {
		return "", &domain.DeliveryError{Reason: "empty recipient"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", &domain.DeliveryError{Reason: "provider call failed", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", &domain.DeliveryError{
			Reason: fmt.Sprintf("mailersend status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	// MailerSend reports the message id in X-Message-Id.
	return res.Header.Get("X-Message-Id"), nil
}

var _ Service = (*Mailer)(nil)
