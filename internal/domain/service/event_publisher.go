package service

import (
	"context"
)

// Mail event kinds.
const (
	MailKindOTP          = "otp"
	MailKindWelcome      = "welcome"
	MailKindLoginSuccess = "login_success"
	MailKindConfirmation = "confirmation"
	MailKindOrderPlaced  = "order_placed"
	MailKindOrderReceipt = "order_receipt"
)

// PushMessage is an optional topic push delivered alongside a mail event.
type PushMessage struct {
	Topic string            `json:"topic"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// MailEvent is a queued outbound notification processed by the mail worker.
type MailEvent struct {
	RequestID string       `json:"request_id,omitempty"` // For distributed tracing
	EventID   string       `json:"event_id"`
	Kind      string       `json:"kind"`
	To        []string     `json:"to"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Push      *PushMessage `json:"push,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMailEvent publishes a mail event for async processing
	PublishMailEvent(ctx context.Context, event *MailEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// Notifier accepts fire-and-forget notifications. Enqueue never blocks on delivery.
type Notifier interface {
	Enqueue(ctx context.Context, event *MailEvent)
}

// MailSender delivers a rendered email.
type MailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// MailEventHandler processes one delivered MailEvent. Errors of kind ExternalService are
// transient and the event should be redelivered; any other error drops the event.
type MailEventHandler interface {
	HandleMailEvent(ctx context.Context, event *MailEvent) error
}
