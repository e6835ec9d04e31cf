package factory

import (
	"fmt"

	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/dnsx"
	"github.com/mikey/mailprobe/internal/probe"
	"github.com/mikey/mailprobe/internal/refdata"
	"go.uber.org/zap"
)

// PipelineFactory assembles the feature extraction pipeline
type PipelineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPipelineFactory creates a new pipeline factory
func NewPipelineFactory(cfg *config.Config, logger *zap.Logger) *PipelineFactory {
	return &PipelineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAggregator builds the probe pipeline on top of the given
// resolver and SMTP dialer factory.
func (f *PipelineFactory) CreateAggregator(resolver dnsx.Resolver, smtpFactory *SMTPFactory) (*probe.Aggregator, error) {
	probeConfig := f.cfg.GetProbe()

	disposable, err := f.createDisposableSet()
	if err != nil {
		return nil, err
	}

	syntax := probe.NewSyntaxChecker()
	reputation := probe.NewReputationScorer(disposable)
	dns := probe.NewDNSProbe(resolver, probeConfig.DNSTimeout, f.logger)
	dnsbl := probe.NewBlacklistProbe(resolver, probeConfig.DNSBLZones, probeConfig.DNSBLWorkers, probeConfig.DNSBLTimeout, f.logger)
	policy := probe.NewPolicyRecordProbe(resolver, probeConfig.DKIMSelectors, probeConfig.PolicyTimeout, f.logger)

	var smtp *probe.SMTPProbe
	if probeConfig.SMTPEnabled {
		dialer, err := smtpFactory.CreateDialer()
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP dialer: %w", err)
		}
		smtp = probe.NewSMTPProbe(resolver, dialer, probeConfig.SMTPTimeout, probeConfig.SMTPMaxHosts, f.logger)
	} else {
		f.logger.Info("SMTP probe disabled; its feature defaults to zero")
	}

	return probe.NewAggregator(syntax, reputation, dns, dnsbl, policy, smtp, probeConfig.CallTimeout, f.logger), nil
}

// createDisposableSet loads the disposable-domain set, preferring an
// external file over the embedded list when one is configured.
func (f *PipelineFactory) createDisposableSet() (*refdata.DisposableSet, error) {
	refConfig := f.cfg.GetRefData()

	if refConfig.DisposableFile != "" {
		set, err := refdata.NewDisposableSetFromFile(refConfig.DisposableFile, refConfig.DisposableExtra)
		if err != nil {
			return nil, fmt.Errorf("failed to load disposable domains: %w", err)
		}
		f.logger.Info("Loaded disposable domains from file",
			zap.String("path", refConfig.DisposableFile),
			zap.Int("count", set.Len()))
		return set, nil
	}
	return refdata.NewDisposableSet(refConfig.DisposableExtra), nil
}
