package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
)

// stubExtractor returns a canned vector keyed by address.
type stubExtractor struct {
	vectors map[string]core.FeatureVector
	calls   int
}

func (s *stubExtractor) Extract(_ context.Context, rawAddress string) (core.FeatureVector, bool) {
	s.calls++
	if vec, ok := s.vectors[rawAddress]; ok {
		return vec, true
	}
	return core.NewFeatureVector(), false
}

// stubClassifier scores by summing the vector, optionally not ready.
type stubClassifier struct {
	ready    bool
	trainErr error
	trained  []core.TrainingSample
}

func (s *stubClassifier) Score(_ context.Context, features core.FeatureVector) (float64, error) {
	sum := 0.0
	for _, v := range features {
		sum += v
	}
	if sum > 1 {
		sum = 1
	}
	return sum, nil
}

func (s *stubClassifier) Train(_ context.Context, samples []core.TrainingSample) error {
	if s.trainErr != nil {
		return s.trainErr
	}
	s.trained = samples
	return nil
}

func (s *stubClassifier) Ready() bool { return s.ready }

func goodVector() core.FeatureVector {
	vec := core.NewFeatureVector()
	vec[core.SlotInputValidation] = 1
	vec[core.SlotSyntaxValidation] = 1
	vec[core.SlotMXValidation] = 1
	return vec
}

func TestValidateNotReady(t *testing.T) {
	extractor := &stubExtractor{}
	service := core.NewValidatorService(extractor, &stubClassifier{ready: false}, zap.NewNop(), 0.7)

	_, err := service.Validate(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, core.ErrClassifierNotReady)
	assert.Zero(t, extractor.calls, "no extraction before the readiness gate")
}

func TestValidateVerdicts(t *testing.T) {
	extractor := &stubExtractor{vectors: map[string]core.FeatureVector{
		"user@example.com": goodVector(),
	}}
	service := core.NewValidatorService(extractor, &stubClassifier{ready: true}, zap.NewNop(), 0.7)

	result, err := service.Validate(context.Background(), "user@example.com")
	require.NoError(t, err)

	assert.True(t, result.TraditionalValidation)
	assert.True(t, result.AIValidation)
	assert.Equal(t, 1.0, result.AIConfidence)
	assert.Len(t, result.Features, core.VectorSize)
}

func TestValidateRejectedInput(t *testing.T) {
	service := core.NewValidatorService(&stubExtractor{}, &stubClassifier{ready: true}, zap.NewNop(), 0.7)

	result, err := service.Validate(context.Background(), "not parseable")
	require.NoError(t, err)

	assert.False(t, result.TraditionalValidation)
	assert.False(t, result.AIValidation)
	assert.Equal(t, 0.0, result.AIConfidence)
}

func TestTrainExtractsMissingFeatures(t *testing.T) {
	extractor := &stubExtractor{vectors: map[string]core.FeatureVector{
		"user@example.com": goodVector(),
	}}
	clf := &stubClassifier{ready: true}
	service := core.NewValidatorService(extractor, clf, zap.NewNop(), 0.7)

	err := service.Train(context.Background(), []core.TrainingSample{
		{Email: "user@example.com", Label: 1},
		{Features: make([]float64, core.VectorSize), Label: 0},
	})
	require.NoError(t, err)

	require.Len(t, clf.trained, 2)
	assert.Len(t, clf.trained[0].Features, core.VectorSize)
	assert.Equal(t, 1, extractor.calls)
}

func TestTrainRejectsBadSamples(t *testing.T) {
	service := core.NewValidatorService(&stubExtractor{}, &stubClassifier{ready: true}, zap.NewNop(), 0.7)

	err := service.Train(context.Background(), []core.TrainingSample{{Label: 1}})
	assert.Error(t, err, "sample with neither email nor features")

	err = service.Train(context.Background(), []core.TrainingSample{
		{Features: []float64{1, 2, 3}, Label: 1},
	})
	assert.Error(t, err, "sample with wrong feature cardinality")
}

func TestTrainPropagatesClassifierError(t *testing.T) {
	trainErr := errors.New("no training endpoint")
	service := core.NewValidatorService(&stubExtractor{}, &stubClassifier{ready: true, trainErr: trainErr}, zap.NewNop(), 0.7)

	err := service.Train(context.Background(), []core.TrainingSample{
		{Features: make([]float64, core.VectorSize), Label: 1},
	})
	assert.ErrorIs(t, err, trainErr)
}

func TestEvaluateAccuracy(t *testing.T) {
	extractor := &stubExtractor{vectors: map[string]core.FeatureVector{
		"good@example.com": goodVector(),
	}}
	service := core.NewValidatorService(extractor, &stubClassifier{ready: true}, zap.NewNop(), 0.7)

	report, err := service.Evaluate(context.Background(), []core.TrainingSample{
		{Email: "good@example.com", Label: 1},                      // scores 1, predicted 1: correct
		{Features: make([]float64, core.VectorSize), Label: 0},     // scores 0, predicted 0: correct
		{Features: goodVector(), Label: 0},                         // scores 1, predicted 1: wrong
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Correct)
	assert.InDelta(t, 2.0/3.0, report.Accuracy, 1e-9)
}

func TestEvaluateNotReady(t *testing.T) {
	service := core.NewValidatorService(&stubExtractor{}, &stubClassifier{}, zap.NewNop(), 0.7)

	_, err := service.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrClassifierNotReady)
}
