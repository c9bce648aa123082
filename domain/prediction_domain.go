package domain

import "errors"

var (
	// ErrModelNotFound means the artifact is absent from the bucket. This is a
	// deployment problem, not a transient one, so it is never retried.
	ErrModelNotFound = errors.New("model artifact not found in storage")

	// ErrModelLoad wraps the last download/deserialize failure after the retry
	// budget is exhausted.
	ErrModelLoad = errors.New("failed to load model")

	// ErrInferenceShape means the feature vector length does not match what
	// the booster was trained with.
	ErrInferenceShape = errors.New("feature vector shape mismatch")
)
