// Package lfilter implements a general-order IIR/FIR digital filter in
// Direct Form II Transposed, with explicit access to the internal delay
// state. The state makes it possible to filter a stream chunk by chunk and
// obtain the exact output a single pass over the whole stream would give.
package lfilter

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Normalize returns b and a scaled so that a[0] == 1. The inputs are not
// modified. An empty or zero-leading denominator is rejected.
func Normalize(b, a []float64) ([]float64, []float64, error) {
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("numerator must not be empty")
	}
	if len(a) == 0 {
		return nil, nil, fmt.Errorf("denominator must not be empty")
	}
	if a[0] == 0 {
		return nil, nil, fmt.Errorf("denominator leading coefficient must not be 0")
	}

	bn := make([]float64, len(b))
	an := make([]float64, len(a))
	inv := 1 / a[0]
	vecmath.ScaleBlock(bn, b, inv)
	vecmath.ScaleBlock(an, a, inv)
	return bn, an, nil
}

// StateLen returns the length of the delay state for the given coefficients:
// max(len(b), len(a)) - 1.
func StateLen(b, a []float64) int {
	k := len(b)
	if len(a) > k {
		k = len(a)
	}
	if k < 1 {
		return 0
	}
	return k - 1
}

// Apply filters x and returns the output along with the final delay state.
// Coefficients must be normalized (a[0] == 1). zi is the initial delay
// state of length StateLen(b, a); nil means zero initial conditions
// (a cold-started filter). zi is not modified.
//
// The recurrence per sample is Direct Form II Transposed:
//
//	y    = b[0]*x + z[0]
//	z[i] = b[i+1]*x + z[i+1] - a[i+1]*y
//	z[K-1] = b[K]*x - a[K]*y
//
// with b and a zero-padded to equal length K+1.
func Apply(b, a, x, zi []float64) (y, zf []float64) {
	k := StateLen(b, a)
	bp := pad(b, k+1)
	ap := pad(a, k+1)

	z := make([]float64, k)
	if zi != nil {
		copy(z, zi)
	}

	y = make([]float64, len(x))
	for n, xn := range x {
		if k == 0 {
			y[n] = bp[0] * xn
			continue
		}
		yn := bp[0]*xn + z[0]
		for i := 0; i < k-1; i++ {
			z[i] = bp[i+1]*xn + z[i+1] - ap[i+1]*yn
		}
		z[k-1] = bp[k]*xn - ap[k]*yn
		y[n] = yn
	}
	return y, z
}

// IC constructs the delay state that makes Apply behave as if the samples
// in x and y had just passed through the filter. Both histories are ordered
// most recent first: y[0] is the last output, x[0] the last input. Shorter
// histories are treated as zero-padded. Coefficients must be normalized.
//
// This is the standard initial-condition construction for Direct Form II
// Transposed: feeding a chunk that continues the history produces output
// identical to uninterrupted filtering.
func IC(b, a, y, x []float64) []float64 {
	n := len(a) - 1
	m := len(b) - 1
	k := StateLen(b, a)

	zi := make([]float64, k)
	xp := pad(x, m)
	yp := pad(y, n)

	for i := 0; i < m; i++ {
		for j := 0; j+i+1 <= m; j++ {
			zi[i] += b[i+1+j] * xp[j]
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j+i+1 <= n; j++ {
			zi[i] -= a[i+1+j] * yp[j]
		}
	}
	return zi
}

// pad returns s zero-extended (or truncated) to length n.
func pad(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	return out
}
