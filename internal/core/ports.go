package core

import "context"

// FeatureExtractor turns a raw address string into the canonical
// feature vector. The boolean reports whether the input parsed at all;
// when false the vector is all-zero and no network probes were run.
type FeatureExtractor interface {
	Extract(ctx context.Context, rawAddress string) (FeatureVector, bool)
}

// Classifier is the external scoring boundary. The pipeline has no
// knowledge of its internals beyond score(vector) -> [0,1].
type Classifier interface {
	// Score returns a confidence in [0,1] for the given vector.
	Score(ctx context.Context, features FeatureVector) (float64, error)

	// Train feeds labeled samples to the classifier. Implementations
	// without a training path return an error.
	Train(ctx context.Context, samples []TrainingSample) error

	// Ready reports whether the classifier can score.
	Ready() bool
}
