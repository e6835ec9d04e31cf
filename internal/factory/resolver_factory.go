package factory

import (
	"fmt"

	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/dnsx"
	"go.uber.org/zap"
)

// ResolverFactory creates DNS resolvers
type ResolverFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewResolverFactory creates a new resolver factory
func NewResolverFactory(cfg *config.Config, logger *zap.Logger) *ResolverFactory {
	return &ResolverFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResolver creates a new DNS resolver based on the configuration.
// When caching is enabled the resolver is wrapped in a TTL cache so
// repeated lookups for the same domain stay off the wire.
func (f *ResolverFactory) CreateResolver() (dnsx.Resolver, error) {
	dnsConfig := f.cfg.GetDNS()

	var resolver dnsx.Resolver
	switch dnsConfig.Resolver {
	case "miekg":
		resolver = dnsx.NewDNSResolver(dnsx.ResolverConfig{
			Nameservers: dnsConfig.Nameservers,
			Timeout:     dnsConfig.Timeout,
			Retries:     dnsConfig.Retries,
		})
	case "std":
		resolver = dnsx.NewStdResolver()
	default:
		return nil, fmt.Errorf("unsupported DNS resolver: %s", dnsConfig.Resolver)
	}

	if dnsConfig.CacheEnabled {
		f.logger.Info("DNS cache enabled",
			zap.Duration("ttl", dnsConfig.CacheTTL))
		resolver = dnsx.NewCache(resolver, dnsConfig.CacheTTL)
	}
	return resolver, nil
}
