package factory

import (
	"fmt"

	"github.com/mikey/mailprobe/internal/adapters/smtpcheck"
	"github.com/mikey/mailprobe/internal/config"
	"go.uber.org/zap"
)

// SMTPFactory creates SMTP handshake dialers
type SMTPFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSMTPFactory creates a new SMTP factory
func NewSMTPFactory(cfg *config.Config, logger *zap.Logger) *SMTPFactory {
	return &SMTPFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDialer creates a new SMTP dialer based on the configuration
func (f *SMTPFactory) CreateDialer() (smtpcheck.Dialer, error) {
	probeConfig := f.cfg.GetProbe()

	switch probeConfig.SMTPDialer {
	case "native":
		return smtpcheck.NewNativeDialer(
			probeConfig.SMTPHeloDomain,
			probeConfig.SMTPMailFrom,
			probeConfig.SMTPPort,
			f.logger,
		), nil
	case "trysmtp":
		return smtpcheck.NewTrySMTPDialer(probeConfig.SMTPMailFrom, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported SMTP dialer: %s", probeConfig.SMTPDialer)
	}
}
