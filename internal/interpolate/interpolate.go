// Package interpolate estimates attenuation between mapped curve samples and
// resamples the curve onto fixed frequency steps.
package interpolate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/RMahshie/scopefft/internal/units"
	"github.com/RMahshie/scopefft/pkg/models"
)

var (
	// ErrInsufficientData is returned for fewer than two samples.
	ErrInsufficientData = errors.New("interpolate: at least 2 samples are required")
	// ErrNotMonotonic is returned when sample frequencies are not strictly increasing.
	ErrNotMonotonic = errors.New("interpolate: frequencies must be strictly increasing")
	// ErrInvalidRange is returned for a non-positive or non-finite step, an
	// inverted or non-finite range, or more than MaxSteps frequencies.
	ErrInvalidRange = errors.New("interpolate: invalid step or range")
)

// MaxSteps caps the length of a resampled table.
const MaxSteps = 1_000_000

// point is a (frequency, dBV) pair.
type point struct {
	freq, dBV float64
}

// Interpolator is a piecewise-linear dBV curve over frequency. Outside the
// sampled range it returns the nearest boundary value.
type Interpolator struct {
	pl interp.PiecewiseLinear
}

// New fits an interpolator to the samples' (FrequencyMHz, AttenuationDBV) pairs.
func New(samples []models.MappedSample) (*Interpolator, error) {
	pts := make([]point, len(samples))
	for i, s := range samples {
		pts[i] = point{freq: s.FrequencyMHz, dBV: s.AttenuationDBV}
	}
	return fit(pts)
}

func fit(pts []point) (*Interpolator, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientData, len(pts))
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 && !(p.freq > pts[i-1].freq) {
			return nil, fmt.Errorf("%w: %g MHz follows %g MHz", ErrNotMonotonic, p.freq, pts[i-1].freq)
		}
		xs[i] = p.freq
		ys[i] = p.dBV
	}

	it := &Interpolator{}
	if err := it.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interpolate: fit: %w", err)
	}
	return it, nil
}

// At returns the interpolated sample at freq. The volt scale is derived from
// the interpolated dBV, never interpolated itself.
func (it *Interpolator) At(freq float64) models.InterpolatedSample {
	dBV := it.pl.Predict(freq)
	return models.InterpolatedSample{
		FrequencyMHz:   freq,
		AttenuationDBV: dBV,
		VoltScale:      units.VoltFactor(dBV),
	}
}

// At fits samples and evaluates them once at freq.
func At(samples []models.MappedSample, freq float64) (models.InterpolatedSample, error) {
	it, err := New(samples)
	if err != nil {
		return models.InterpolatedSample{}, err
	}
	return it.At(freq), nil
}

// Boundary holds the synthetic points Resample adds so frequencies past the
// measured curve fall toward a floor instead of holding the last value.
type Boundary struct {
	StartMHz      float64 // prepended point frequency
	StartDBV      float64 // prepended point attenuation
	TailOffsetMHz float64 // first floor point sits this far past the last sample
	FloorDBV      float64 // attenuation of both floor points
	EndMHz        float64 // second floor point frequency
}

// DefaultBoundary returns the boundary used for the 0 to 1 GHz plot.
func DefaultBoundary() Boundary {
	return Boundary{
		StartMHz:      0,
		StartDBV:      0,
		TailOffsetMHz: 1,
		FloorDBV:      -100,
		EndMHz:        1000,
	}
}

// extend adds the boundary points around samples. A synthetic point that would
// not strictly extend the domain is skipped.
func (b Boundary) extend(samples []models.MappedSample) []point {
	pts := make([]point, 0, len(samples)+3)
	if len(samples) == 0 || b.StartMHz < samples[0].FrequencyMHz {
		pts = append(pts, point{freq: b.StartMHz, dBV: b.StartDBV})
	}
	for _, s := range samples {
		pts = append(pts, point{freq: s.FrequencyMHz, dBV: s.AttenuationDBV})
	}

	last := pts[len(pts)-1].freq
	tail := []point{
		{freq: last + b.TailOffsetMHz, dBV: b.FloorDBV},
		{freq: b.EndMHz, dBV: b.FloorDBV},
	}
	for _, p := range tail {
		if p.freq > pts[len(pts)-1].freq {
			pts = append(pts, p)
		}
	}
	return pts
}

// StepCount returns floor((end - start + step) / step), the number of steps
// from start to end inclusive when the range is a multiple of step.
func StepCount(step, start, end float64) int {
	return int(math.Floor((end - start + step) / step))
}

// Resample evaluates the curve, bounded by b, at start, start+step, ... for
// StepCount(step, start, end) frequencies.
func Resample(samples []models.MappedSample, step, start, end float64, b Boundary) ([]models.InterpolatedSample, error) {
	if !(step > 0) || !(end >= start) || math.IsInf(step, 0) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("%w: step %g, range %g..%g", ErrInvalidRange, step, start, end)
	}
	if steps := math.Floor((end - start + step) / step); steps > MaxSteps {
		return nil, fmt.Errorf("%w: %g steps exceed %d", ErrInvalidRange, steps, MaxSteps)
	}
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientData, len(samples))
	}

	it, err := fit(b.extend(samples))
	if err != nil {
		return nil, err
	}

	n := StepCount(step, start, end)
	out := make([]models.InterpolatedSample, n)
	for i := 0; i < n; i++ {
		out[i] = it.At(start + step*float64(i))
	}
	return out, nil
}
