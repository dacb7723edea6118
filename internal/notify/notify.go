// Package notify turns family events into admin notification mails.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes mails to the log instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.WithDD(ctx, log.L()).Info("mail",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// Handler mails the admin about each family member waiting for approval.
// Undecodable messages are dropped; mail failures are requeued.
func Handler(m Mailer, to string) queue.Handler {
	return func(ctx context.Context, msg queue.Message) error {
		if msg.Key != queue.KeyFamilyRegistered {
			return nil
		}
		var ev queue.FamilyRegistered
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			log.L().Warn("drop malformed event", zap.String("key", msg.Key), zap.Error(err))
			return nil
		}
		subject := "New family member awaiting approval"
		body := fmt.Sprintf("%s <%s> signed in for the first time and is pending approval (id %s).",
			ev.Name, ev.Email, ev.FamilyUserID.Hex())
		if err := m.Send(ctx, to, subject, body); err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	}
}
