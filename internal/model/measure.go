package model

import "math"

// Weight is a strictly positive weight value. Construct via NewWeight.
type Weight float64

func NewWeight(value float64) (Weight, error) {
	verr := &ValidationError{Entity: "weight"}
	if !isPositiveMeasure(value) {
		verr.add("value", "must be greater than zero")
	}
	if err := verr.errOrNil(); err != nil {
		return 0, err
	}
	return Weight(value), nil
}

func (w Weight) Value() float64 { return float64(w) }

// Dimensions is a height/width/depth triple, each strictly positive.
// Construct via NewDimensions.
type Dimensions struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
}

func NewDimensions(height, width, depth float64) (Dimensions, error) {
	verr := &ValidationError{Entity: "dimensions"}
	if !isPositiveMeasure(height) {
		verr.add("height", "must be greater than zero")
	}
	if !isPositiveMeasure(width) {
		verr.add("width", "must be greater than zero")
	}
	if !isPositiveMeasure(depth) {
		verr.add("depth", "must be greater than zero")
	}
	if err := verr.errOrNil(); err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Height: height, Width: width, Depth: depth}, nil
}

// isPositiveMeasure rejects NaN and +Inf along with zero and negatives.
// NaN compares false against everything, so it fails the > 0 test; +Inf
// needs the explicit check.
func isPositiveMeasure(value float64) bool {
	return value > 0 && !math.IsInf(value, 1)
}
