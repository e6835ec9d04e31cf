// Package classifier provides the scoring adapters behind the
// core.Classifier port: a config-driven weighted scorer and a remote
// HTTP adapter that forwards to an external model service.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
)

// ErrTrainingUnsupported is returned by classifiers without a training
// path. The API boundary maps it to a client error.
var ErrTrainingUnsupported = errors.New("classifier does not support training")

// defaultWeights is the built-in weight table, indexed in catalog
// order. Signals of deliverability weigh heaviest; the raw shape
// features barely move the score.
var defaultWeights = map[string]float64{
	"inputValidation":         1.0,
	"syntaxValidation":        1.5,
	"emailLength":             0.1,
	"localPartLength":         0.1,
	"domainLength":            0.1,
	"disposableDomain":        -2.0,
	"commonDomain":            1.0,
	"domainTypoScore":         -1.0,
	"tldPopularity":           0.5,
	"dnsValidation":           1.5,
	"mxValidation":            2.0,
	"mxRecordCount":           0.5,
	"dnsblValidation":         1.5,
	"spfValidation":           1.0,
	"dmarcValidation":         1.0,
	"dkimValidation":          1.0,
	"smtpValidation":          2.0,
	"hasNumbers":              -0.1,
	"specialCharCount":        -0.3,
	"consecutiveSpecialChars": -0.5,
}

// Weighted scores a vector as a normalized weighted sum. There is no
// learning: the weights are fixed configuration, which keeps this
// adapter always ready.
type Weighted struct {
	weights []float64
	posSum  float64
	negSum  float64
	logger  *zap.Logger
}

// NewWeighted builds the scorer from configured overrides merged over
// the built-in table. Unknown labels in overrides are rejected so a
// typo in the config fails fast.
func NewWeighted(overrides map[string]float64, logger *zap.Logger) (*Weighted, error) {
	table := make(map[string]float64, len(defaultWeights))
	for label, w := range defaultWeights {
		table[label] = w
	}
	for label, w := range overrides {
		if _, known := table[label]; !known {
			return nil, fmt.Errorf("unknown feature label in weights: %q", label)
		}
		table[label] = w
	}

	w := &Weighted{
		weights: make([]float64, core.VectorSize),
		logger:  logger,
	}
	for i, label := range core.FeatureLabels {
		weight := table[label]
		w.weights[i] = weight
		if weight > 0 {
			w.posSum += weight
		} else {
			w.negSum += -weight
		}
	}
	return w, nil
}

// Score maps the weighted sum into [0,1]. A vector hitting every
// positive signal scores 1; one hitting every negative signal scores 0.
func (w *Weighted) Score(_ context.Context, features core.FeatureVector) (float64, error) {
	if len(features) != core.VectorSize {
		return 0, fmt.Errorf("feature vector has %d slots, want %d", len(features), core.VectorSize)
	}

	sum := 0.0
	for i, value := range features {
		sum += value * w.weights[i]
	}

	// Normalize from [-negSum, posSum] to [0,1].
	span := w.posSum + w.negSum
	if span == 0 {
		return 0, nil
	}
	score := (sum + w.negSum) / span
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// Train is unsupported for the fixed-weight scorer.
func (w *Weighted) Train(context.Context, []core.TrainingSample) error {
	return ErrTrainingUnsupported
}

// Ready always holds: the weights are static configuration.
func (w *Weighted) Ready() bool {
	return true
}
