// Package curve locates a plotted trace in a screenshot by its exact colour.
package curve

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/RMahshie/scopefft/pkg/models"
)

var (
	// ErrEmptyCurve is returned when a zone, or the whole curve, has no samples.
	ErrEmptyCurve = errors.New("curve: no samples located")
	// ErrZoneOverlap is returned when two zones produced samples for the same column.
	ErrZoneOverlap = errors.New("curve: zones overlap")
	// ErrZoneOutOfBounds is returned when a zone is not inside the image.
	ErrZoneOutOfBounds = errors.New("curve: zone outside image bounds")
)

// Result holds the merged samples of all zones plus scan diagnostics.
type Result struct {
	Samples []models.RawSample
	// NonContiguousColumns counts columns whose matching pixels were not one
	// run. Their Y is still firstY + (count-1)/2, which may not lie on the trace.
	NonContiguousColumns int
	ZoneCounts           []int
}

// Locator finds columns containing the target colour.
type Locator struct {
	target color.NRGBA
}

// NewLocator creates a locator for the given curve colour. Alpha is ignored.
func NewLocator(target color.Color) *Locator {
	c := color.NRGBAModel.Convert(target).(color.NRGBA)
	c.A = 0xff
	return &Locator{target: c}
}

// Matches reports whether c has the same 24-bit RGB value as the target.
func (l *Locator) Matches(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == l.target.R && n.G == l.target.G && n.B == l.target.B
}

// ScanZone returns one sample per column of z holding at least one matching
// pixel, ascending by x, and the number of columns whose matches were not
// contiguous.
func (l *Locator) ScanZone(img image.Image, z models.Zone) ([]models.RawSample, int) {
	var samples []models.RawSample
	nonContiguous := 0

	for x := z.UpperLeftX; x < z.DownRightX; x++ {
		firstY, lastY := -1, -1
		count := 0
		gap := false
		for y := z.UpperLeftY; y < z.DownRightY; y++ {
			if !l.Matches(img.At(x, y)) {
				continue
			}
			if count == 0 {
				firstY = y
			} else if y != lastY+1 {
				gap = true
			}
			lastY = y
			count++
		}
		if count == 0 {
			continue
		}
		if gap {
			nonContiguous++
		}
		samples = append(samples, models.RawSample{
			X: x,
			Y: float64(firstY) + float64(count-1)/2.0,
		})
	}

	return samples, nonContiguous
}

// Locate scans every zone and merges the samples in ascending x order.
// Every zone must yield at least one sample and no two zones may produce the
// same column.
func (l *Locator) Locate(img image.Image, zones []models.Zone) (*Result, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("%w: no search zones configured", ErrEmptyCurve)
	}

	bounds := img.Bounds()
	res := &Result{ZoneCounts: make([]int, len(zones))}

	for i, z := range zones {
		rect := image.Rect(z.UpperLeftX, z.UpperLeftY, z.DownRightX, z.DownRightY)
		if rect.Empty() || !rect.In(bounds) {
			return nil, fmt.Errorf("%w: zone %d %s, image %v", ErrZoneOutOfBounds, i, z, bounds)
		}

		samples, nonContiguous := l.ScanZone(img, z)
		if len(samples) == 0 {
			return nil, fmt.Errorf("%w: zone %d %s", ErrEmptyCurve, i, z)
		}
		res.ZoneCounts[i] = len(samples)
		res.NonContiguousColumns += nonContiguous
		res.Samples = append(res.Samples, samples...)
	}

	sort.SliceStable(res.Samples, func(a, b int) bool {
		return res.Samples[a].X < res.Samples[b].X
	})
	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i].X == res.Samples[i-1].X {
			return nil, fmt.Errorf("%w: column %d located twice", ErrZoneOverlap, res.Samples[i].X)
		}
	}

	return res, nil
}
