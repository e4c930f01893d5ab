// Package calibration maps screenshot pixels to physical units using
// manually measured grid tables.
package calibration

import (
	"errors"
	"fmt"

	"github.com/RMahshie/scopefft/pkg/models"
)

// ErrMalformedTable is returned by Table.Validate.
var ErrMalformedTable = errors.New("calibration: malformed table")

// Table is an ordered list of (pixel, value) pairs for one axis.
type Table []models.CalibrationEntry

// Validate checks that the table can define an affine map.
func (t Table) Validate() error {
	if len(t) < 2 {
		return fmt.Errorf("%w: need at least 2 entries, got %d", ErrMalformedTable, len(t))
	}
	if t[0].Delta != 0 {
		return fmt.Errorf("%w: first entry delta must be 0, got %d", ErrMalformedTable, t[0].Delta)
	}
	for i := 1; i < len(t); i++ {
		diff := t[i].Pixel - t[i-1].Pixel
		if diff <= 0 {
			return fmt.Errorf("%w: pixel %d at row %d is not after %d", ErrMalformedTable, t[i].Pixel, i, t[i-1].Pixel)
		}
		if t[i].Delta != diff {
			return fmt.Errorf("%w: row %d delta %d, pixels differ by %d", ErrMalformedTable, i, t[i].Delta, diff)
		}
	}
	if t[0].Value == t[len(t)-1].Value {
		return fmt.Errorf("%w: first and last values are equal", ErrMalformedTable)
	}
	return nil
}

// First returns the first entry.
func (t Table) First() models.CalibrationEntry { return t[0] }

// Last returns the last entry.
func (t Table) Last() models.CalibrationEntry { return t[len(t)-1] }

// Axis derives the affine map through the first and last entries.
func (t Table) Axis() Axis {
	return Axis{
		FromPixel: float64(t.First().Pixel),
		ToPixel:   float64(t.Last().Pixel),
		FromValue: t.First().Value,
		ToValue:   t.Last().Value,
	}
}

// Normalized returns a copy with the first value subtracted from every value,
// so the first entry maps to 0.
func (t Table) Normalized() Table {
	offset := t.First().Value
	out := make(Table, len(t))
	for i, e := range t {
		e.Value -= offset
		out[i] = e
	}
	return out
}

// Axis is an affine pixel-to-value map defined by two anchor points.
type Axis struct {
	FromPixel, ToPixel float64
	FromValue, ToValue float64
}

// Slope returns value units per pixel.
func (a Axis) Slope() float64 {
	return (a.ToValue - a.FromValue) / (a.ToPixel - a.FromPixel)
}

// Value maps a pixel position to a physical value.
func (a Axis) Value(pixel float64) float64 {
	return a.FromValue + (pixel-a.FromPixel)/(a.ToPixel-a.FromPixel)*(a.ToValue-a.FromValue)
}
