// Package jobs defines the background jobs the store dispatches.
package jobs

import (
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/mail"
	"github.com/zmaxim/skystore/pkg/notification"
	"github.com/zmaxim/skystore/pkg/queue"
)

// MailJobName is the queue type name for outbound mail.
const MailJobName = "mail"

// MailJob delivers one email. Failures are retried by the queue.
type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (j *MailJob) Handle() error {
	return mail.To(j.To).Subject(j.Subject).Text(j.Body).Send()
}

// Register makes every job type known to the queue. Call once at boot.
func Register() {
	queue.Register(MailJobName, func() queue.Job { return &MailJob{} })
}

// QueueMail is a notification.Sender that hands delivery to the queue
// instead of sending inline.
func QueueMail(msg notification.Message) {
	if msg.To == "" {
		return
	}
	err := queue.Dispatch(MailJobName, &MailJob{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
	if err != nil {
		logger.Error("jobs: queue mail", "to", msg.To, "error", err)
	}
}
