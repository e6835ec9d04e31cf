package smtpcheck

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// NativeDialer performs the handshake with the emersion/go-smtp client
// over a plain TCP connection to port 25.
type NativeDialer struct {
	heloDomain string
	mailFrom   string
	port       string
	logger     *zap.Logger
}

// NewNativeDialer creates a native SMTP dialer. heloDomain is sent in
// EHLO and mailFrom in MAIL FROM; both should belong to the operator.
func NewNativeDialer(heloDomain, mailFrom, port string, logger *zap.Logger) *NativeDialer {
	if port == "" {
		port = "25"
	}
	return &NativeDialer{
		heloDomain: heloDomain,
		mailFrom:   mailFrom,
		port:       port,
		logger:     logger,
	}
}

// Handshake dials the exchanger and walks the envelope commands.
func (d *NativeDialer) Handshake(ctx context.Context, mxHost, address string) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(3 * time.Second)
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(mxHost, d.port))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", mxHost, err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}

	client := smtp.NewClient(conn)
	defer client.Close()

	if err := client.Hello(d.heloDomain); err != nil {
		return fmt.Errorf("EHLO rejected by %s: %w", mxHost, err)
	}
	if err := client.Mail(d.mailFrom, nil); err != nil {
		return fmt.Errorf("MAIL FROM rejected by %s: %w", mxHost, err)
	}
	if err := client.Rcpt(address, nil); err != nil {
		return fmt.Errorf("RCPT TO rejected by %s: %w", mxHost, err)
	}

	if err := client.Quit(); err != nil {
		d.logger.Debug("QUIT failed after successful handshake",
			zap.String("host", mxHost), zap.Error(err))
	}
	return nil
}
