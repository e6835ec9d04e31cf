package di

import (
	"go.uber.org/dig"

	"github.com/mikey/mailprobe/internal/adapters/httpapi"
	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
	"github.com/mikey/mailprobe/internal/factory"
	"github.com/mikey/mailprobe/internal/logging"
	"github.com/mikey/mailprobe/internal/probe"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewResolverFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSMTPFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPipelineFactory); err != nil {
		return nil, err
	}

	// Register DNS resolver
	if err := container.Provide(func(f *factory.ResolverFactory) (dnsx.Resolver, error) {
		return f.CreateResolver()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register probe pipeline as the feature extractor
	if err := container.Provide(func(f *factory.PipelineFactory, resolver dnsx.Resolver, smtpFactory *factory.SMTPFactory) (*probe.Aggregator, error) {
		return f.CreateAggregator(resolver, smtpFactory)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(agg *probe.Aggregator) core.FeatureExtractor {
		return agg
	}); err != nil {
		return nil, err
	}

	// Register decision threshold
	if err := container.Provide(func(cfg *config.Config) float64 {
		return cfg.GetFloat64("classifier.threshold")
	}); err != nil {
		return nil, err
	}

	// Register validator service
	if err := container.Provide(core.NewValidatorService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(httpapi.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
