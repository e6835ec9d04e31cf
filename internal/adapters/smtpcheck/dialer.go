// Package smtpcheck provides the SMTP handshake dialers used by the
// deliverability probe. Two implementations exist: a native client
// built on emersion/go-smtp and a wrapper around etke.cc/go/trysmtp.
// Neither ever sends message data.
package smtpcheck

import "context"

// Dialer attempts an SMTP handshake to assess live deliverability.
type Dialer interface {
	// Handshake connects to mxHost and walks EHLO / MAIL FROM /
	// RCPT TO for address, then quits. A nil return means the
	// exchanger answered the handshake. The context deadline bounds
	// the whole exchange.
	Handshake(ctx context.Context, mxHost, address string) error
}
