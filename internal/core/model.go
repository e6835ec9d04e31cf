// Package core holds the domain model of the verification pipeline:
// the parsed address, the feature vector contract and the validator
// service that ties feature extraction to the external classifier.
package core

import "errors"

// ErrClassifierNotReady is returned when a score is requested before
// the classifier has been initialized. The API boundary maps it to 503.
var ErrClassifierNotReady = errors.New("classifier not initialized")

// ParsedEmail is a sanitized address split into its two halves.
// Both parts are non-empty and lower-cased; the value is immutable
// once constructed.
type ParsedEmail struct {
	Address   string
	LocalPart string
	Domain    string
}

// FeatureLabels is the canonical ordered catalog of feature slots.
// The ordering is load-bearing: classifiers are trained against slot
// positions, so this list only ever grows at the end, never reorders.
var FeatureLabels = []string{
	"inputValidation",
	"syntaxValidation",
	"emailLength",
	"localPartLength",
	"domainLength",
	"disposableDomain",
	"commonDomain",
	"domainTypoScore",
	"tldPopularity",
	"dnsValidation",
	"mxValidation",
	"mxRecordCount",
	"dnsblValidation",
	"spfValidation",
	"dmarcValidation",
	"dkimValidation",
	"smtpValidation",
	"hasNumbers",
	"specialCharCount",
	"consecutiveSpecialChars",
}

// Slot indices into a FeatureVector, in catalog order.
const (
	SlotInputValidation = iota
	SlotSyntaxValidation
	SlotEmailLength
	SlotLocalPartLength
	SlotDomainLength
	SlotDisposableDomain
	SlotCommonDomain
	SlotDomainTypoScore
	SlotTLDPopularity
	SlotDNSValidation
	SlotMXValidation
	SlotMXRecordCount
	SlotDNSBLValidation
	SlotSPFValidation
	SlotDMARCValidation
	SlotDKIMValidation
	SlotSMTPValidation
	SlotHasNumbers
	SlotSpecialCharCount
	SlotConsecutiveSpecialChars

	// VectorSize is the fixed feature vector cardinality.
	VectorSize
)

// FeatureVector is an ordered sequence of numeric feature slots.
// Length and slot order are stable across all code paths, including
// total failure (an all-zero vector of the same length). A vector is
// created fresh per validation call and owned solely by the caller.
type FeatureVector []float64

// NewFeatureVector returns an all-zero vector of the canonical size.
func NewFeatureVector() FeatureVector {
	return make(FeatureVector, VectorSize)
}

// Labeled returns the vector as a label -> value map for API responses.
func (v FeatureVector) Labeled() map[string]float64 {
	out := make(map[string]float64, len(FeatureLabels))
	for i, label := range FeatureLabels {
		if i < len(v) {
			out[label] = v[i]
		} else {
			out[label] = 0
		}
	}
	return out
}

// TrainingSample is one labeled example. Either Email or Features is
// set; when only Email is present the features are extracted before
// training.
type TrainingSample struct {
	Email    string    `json:"email,omitempty"`
	Features []float64 `json:"features,omitempty"`
	Label    float64   `json:"label"`
}

// ValidationResult is the outcome of validating one address.
type ValidationResult struct {
	Email                 string             `json:"email"`
	TraditionalValidation bool               `json:"traditionalValidation"`
	AIValidation          bool               `json:"aiValidation"`
	AIConfidence          float64            `json:"aiConfidence"`
	Features              map[string]float64 `json:"features"`
}

// EvaluationReport summarizes classifier performance on a test set.
type EvaluationReport struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
