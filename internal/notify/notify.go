// Package notify delivers composed notifications to the group chat.
package notify

import "context"

// Sink is the delivery channel for notification text. Send reports
// delivery failure as an error; the scanner's seen-flag decision hangs
// on that outcome, so an implementation must not claim success it
// cannot confirm.
type Sink interface {
	Send(ctx context.Context, text string) error
}
