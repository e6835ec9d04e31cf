package smtpcheck

import (
	"context"
	"strings"

	"gitlab.com/etke.cc/go/trysmtp"
	"go.uber.org/zap"
)

// TrySMTPDialer performs the handshake through etke.cc/go/trysmtp,
// which resolves the recipient's exchangers itself and walks the
// envelope up to RCPT TO. The mxHost argument is therefore ignored.
type TrySMTPDialer struct {
	mailFrom string
	logger   *zap.Logger
}

// NewTrySMTPDialer creates a trysmtp-backed dialer.
func NewTrySMTPDialer(mailFrom string, logger *zap.Logger) *TrySMTPDialer {
	return &TrySMTPDialer{mailFrom: mailFrom, logger: logger}
}

// Handshake runs the trysmtp connection attempt under the context
// deadline. Greylisting (451) counts as a live exchanger.
func (d *TrySMTPDialer) Handshake(ctx context.Context, _ string, address string) error {
	type outcome struct{ err error }
	ch := make(chan outcome, 1)

	go func() {
		client, err := trysmtp.Connect(d.mailFrom, address)
		if err != nil {
			// 451 means the exchanger is alive but greylisting us.
			if strings.HasPrefix(err.Error(), "451") {
				d.logger.Debug("Exchanger greylisted the probe", zap.String("address", address))
				ch <- outcome{nil}
				return
			}
			ch <- outcome{err}
			return
		}
		client.Close()
		ch <- outcome{nil}
	}()

	select {
	case out := <-ch:
		return out.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
