// Package notification dispatches fire-and-forget notifications.
//
// The store's notifications (registration welcome, 100-views congratulation)
// must never block or fail the operation that triggered them: delivery
// errors are logged and swallowed.
//
//	notification.SendAsync(notification.Message{
//	    To:      user.Email,
//	    Subject: "Welcome to Skystore!",
//	    Body:    "...",
//	})
package notification

import (
	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/mail"
)

// Message is a subject/body/recipient triple delivered over email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a Message. Services take a Sender so tests can capture
// notifications instead of hitting SMTP.
type Sender func(Message)

// Send delivers msg synchronously. The error is logged, never returned.
func Send(msg Message) {
	if msg.To == "" {
		return
	}
	if err := mail.To(msg.To).Subject(msg.Subject).Text(msg.Body).Send(); err != nil {
		logger.Error("notification: delivery failed",
			"to", msg.To, "subject", msg.Subject, "error", err)
	}
}

// SendAsync delivers msg in a background goroutine.
func SendAsync(msg Message) {
	go Send(msg)
}
