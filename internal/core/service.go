package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ValidatorService is the core service for address validation. It runs
// the feature extractor and hands the vector to the classifier.
type ValidatorService struct {
	extractor  FeatureExtractor
	classifier Classifier
	logger     *zap.Logger
	threshold  float64
}

// NewValidatorService creates a validator service.
func NewValidatorService(
	extractor FeatureExtractor,
	classifier Classifier,
	logger *zap.Logger,
	threshold float64,
) *ValidatorService {
	return &ValidatorService{
		extractor:  extractor,
		classifier: classifier,
		logger:     logger,
		threshold:  threshold,
	}
}

// Validate extracts the feature vector for one address and scores it.
// Probe failures never surface here; the only error condition is an
// uninitialized classifier.
func (s *ValidatorService) Validate(ctx context.Context, email string) (*ValidationResult, error) {
	if !s.classifier.Ready() {
		return nil, ErrClassifierNotReady
	}

	features, parsed := s.extractor.Extract(ctx, email)

	score, err := s.classifier.Score(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("failed to score features: %w", err)
	}

	// Traditional verdict: the address parsed, has valid syntax and a
	// mail exchanger exists for its domain.
	traditional := parsed &&
		features[SlotSyntaxValidation] == 1 &&
		features[SlotMXValidation] == 1

	s.logger.Debug("Validated address",
		zap.String("email", email),
		zap.Bool("traditional", traditional),
		zap.Float64("confidence", score))

	return &ValidationResult{
		Email:                 email,
		TraditionalValidation: traditional,
		AIValidation:          score >= s.threshold,
		AIConfidence:          score,
		Features:              features.Labeled(),
	}, nil
}

// Train extracts features for email-only samples and forwards the
// dataset to the classifier.
func (s *ValidatorService) Train(ctx context.Context, samples []TrainingSample) error {
	prepared := make([]TrainingSample, 0, len(samples))
	for _, sample := range samples {
		if len(sample.Features) == 0 {
			if sample.Email == "" {
				return fmt.Errorf("training sample has neither email nor features")
			}
			vec, _ := s.extractor.Extract(ctx, sample.Email)
			sample.Features = vec
		}
		if len(sample.Features) != VectorSize {
			return fmt.Errorf("training sample has %d features, want %d", len(sample.Features), VectorSize)
		}
		prepared = append(prepared, sample)
	}

	if err := s.classifier.Train(ctx, prepared); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	s.logger.Info("Trained classifier", zap.Int("samples", len(prepared)))
	return nil
}

// Evaluate scores every sample and reports accuracy against the labels.
func (s *ValidatorService) Evaluate(ctx context.Context, samples []TrainingSample) (*EvaluationReport, error) {
	if !s.classifier.Ready() {
		return nil, ErrClassifierNotReady
	}

	report := &EvaluationReport{Total: len(samples)}
	for _, sample := range samples {
		features := FeatureVector(sample.Features)
		if len(features) == 0 {
			vec, _ := s.extractor.Extract(ctx, sample.Email)
			features = vec
		}

		score, err := s.classifier.Score(ctx, features)
		if err != nil {
			return nil, fmt.Errorf("failed to score sample: %w", err)
		}

		predicted := 0.0
		if score >= s.threshold {
			predicted = 1.0
		}
		if predicted == sample.Label {
			report.Correct++
		}
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}
	return report, nil
}

// Threshold returns the decision threshold applied to classifier scores.
func (s *ValidatorService) Threshold() float64 {
	return s.threshold
}
