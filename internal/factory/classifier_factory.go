package factory

import (
	"fmt"

	"github.com/mikey/mailprobe/internal/adapters/classifier"
	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates classifier adapters
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a new classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	clfConfig := f.cfg.GetClassifier()

	switch clfConfig.Type {
	case "weighted":
		return classifier.NewWeighted(clfConfig.Weights, f.logger)
	case "remote":
		return classifier.NewRemote(clfConfig.RemoteBaseURL, clfConfig.RemoteTimeout, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported classifier type: %s", clfConfig.Type)
	}
}
