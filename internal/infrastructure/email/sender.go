// Package email delivers transactional mail: verification decisions,
// event announcements and payment receipts.
package email

import "context"

// Message is one transactional email
type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Sender is the port for delivering mail
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
