// Package notify carries transient user-facing notices (toasts in the web
// client). Unlike the cart and session streams there is no retained value:
// a notice is only meaningful at the moment it fires.
package notify

import (
	"time"

	"github.com/google/uuid"

	"storefront/internal/stream"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is one notice with its display duration.
type Notification struct {
	ID       uuid.UUID
	Message  string
	Level    Level
	Duration time.Duration
}

const (
	defaultDuration      = 3 * time.Second
	defaultErrorDuration = 4 * time.Second
)

type Notifier struct {
	subject *stream.Subject[Notification]
}

func New() *Notifier {
	return &Notifier{subject: stream.NewSubject[Notification]()}
}

func (n *Notifier) Success(message string) {
	n.publish(message, LevelSuccess, defaultDuration)
}

func (n *Notifier) Error(message string) {
	n.publish(message, LevelError, defaultErrorDuration)
}

func (n *Notifier) Info(message string) {
	n.publish(message, LevelInfo, defaultDuration)
}

func (n *Notifier) Warning(message string) {
	n.publish(message, LevelWarning, defaultDuration)
}

// Show publishes a notice with an explicit duration.
func (n *Notifier) Show(message string, level Level, duration time.Duration) {
	n.publish(message, level, duration)
}

// Subscribe delivers future notices until cancel is called.
func (n *Notifier) Subscribe(fn func(Notification)) (cancel func()) {
	return n.subject.Subscribe(fn)
}

func (n *Notifier) publish(message string, level Level, duration time.Duration) {
	if n == nil {
		return
	}
	n.subject.Publish(Notification{
		ID:       uuid.New(),
		Message:  message,
		Level:    level,
		Duration: duration,
	})
}
