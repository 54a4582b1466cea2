package predictor

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is the umbrella "no result" outcome of both pipelines.
var ErrInsufficientData = errors.New("insufficient data")

var (
	// ErrInsufficientHistory means the raw series is shorter than the pipeline minimum.
	ErrInsufficientHistory = fmt.Errorf("%w: price history too short", ErrInsufficientData)
	// ErrInsufficientFeatureRows means too few labelled rows survived feature warm-up.
	ErrInsufficientFeatureRows = fmt.Errorf("%w: too few usable feature rows", ErrInsufficientData)
)
