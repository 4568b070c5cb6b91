// Package metrics holds the rate and display-scale functions shared by the
// establishment and key-year aggregations. None of them return NaN or Inf.
package metrics

import (
	"fmt"
	"math"

	"github.com/ougirez/injuries/internal/pkg/constants"
)

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Rate returns numerator/denominator, nil when the denominator is zero or
// either side is not finite.
func Rate(numerator, denominator float64) *float64 {
	if denominator == 0 || !finite(numerator) || !finite(denominator) {
		return nil
	}
	r := numerator / denominator
	if !finite(r) {
		return nil
	}
	return &r
}

// RateOf is Rate over optional values; a nil side yields nil.
func RateOf(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil {
		return nil
	}
	return Rate(*numerator, *denominator)
}

// LogTransform returns log(1+x), defined for x >= -1.
func LogTransform(x float64) (float64, error) {
	if math.IsNaN(x) || x < -1 {
		return 0, fmt.Errorf("log1p(%v): %w", x, constants.ErrDomain)
	}
	return math.Log1p(x), nil
}

// LogOrNil applies LogTransform, substituting nil for nil input or a domain error.
// x = -1 maps to -Inf, which is reported as nil as well.
func LogOrNil(x *float64) *float64 {
	if x == nil {
		return nil
	}
	v, err := LogTransform(*x)
	if err != nil || !finite(v) {
		return nil
	}
	return &v
}

// Pearson is the sample correlation coefficient of paired values. It is nil
// for mismatched or short input and for zero variance.
func Pearson(xs, ys []float64) *float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return nil
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	return Rate(cov, math.Sqrt(varX*varY))
}
