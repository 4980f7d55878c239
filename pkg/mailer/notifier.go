package mailer

import (
	"context"

	"github.com/learnhub/learnhub-backend/pkg/helpers"
)

// QueueNotifier delivers one-time codes by publishing an EmailJob to the
// email queue; cmd/email_worker renders and sends it. With sending disabled
// (local development) jobs are silently dropped.
type QueueNotifier struct {
	Pub     *helpers.RabbitPublisher
	Enabled bool
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Enabled: enabled}
}

func (n *QueueNotifier) SendCode(ctx context.Context, to, name, code, purpose string) error {
	if !n.Enabled || n.Pub == nil {
		return nil
	}
	return n.Pub.PublishJSON(ctx, EmailJob{To: to, Name: name, Code: code, Purpose: purpose})
}
