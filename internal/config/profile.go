package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/RMahshie/scopefft/internal/annotate"
	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/pkg/models"
)

// ErrInvalidProfile is returned when a calibration profile is inconsistent.
var ErrInvalidProfile = errors.New("invalid calibration profile")

// Profile is the calibration of one scope model and screen layout. Values are
// shared read-only between runs; use the accessor copies when mutating.
type Profile struct {
	Name         string
	CurveColor   color.RGBA
	Markers      annotate.Markers
	GraphLimits  models.Zone
	Zones        []models.Zone
	YTable       calibration.Table // pixel row -> dBV
	XTable       calibration.Table // pixel column -> MHz
	ExpectedSize image.Point
}

// SDS2354XPlus is the profile for a Siglent SDS2354X Plus FFT screen
// captured at 1024x600, 2 GSa/s, 0 to 1 GHz span.
func SDS2354XPlus() Profile {
	return Profile{
		Name:       "SDS2354X Plus 1 GHz FFT",
		CurveColor: color.RGBA{R: 0xB0, G: 0x14, B: 0xE8, A: 0xff},
		Markers: annotate.Markers{
			Signal:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			Extension: color.RGBA{R: 0xff, A: 0xff},
			GridY:     color.RGBA{G: 0xff, A: 0xff},
			GridX:     color.RGBA{G: 0xff, A: 0xff},
			ZeroRef:   color.RGBA{G: 0xff, A: 0xff},
		},
		GraphLimits: models.Zone{UpperLeftX: 18, UpperLeftY: 49, DownRightX: 872, DownRightY: 530},
		Zones: []models.Zone{
			{UpperLeftX: 34, UpperLeftY: 110, DownRightX: 82, DownRightY: 157},
			{UpperLeftX: 83, UpperLeftY: 110, DownRightX: 872, DownRightY: 530},
		},
		YTable: calibration.Table{
			{Pixel: 104, Value: -12, Delta: 0},
			{Pixel: 164, Value: -14, Delta: 60},
			{Pixel: 224, Value: -16, Delta: 60},
			{Pixel: 285, Value: -18, Delta: 61},
			{Pixel: 345, Value: -20, Delta: 60},
			{Pixel: 405, Value: -22, Delta: 60},
			{Pixel: 465, Value: -24, Delta: 60},
			{Pixel: 525, Value: -26, Delta: 60},
			{Pixel: 585, Value: -28, Delta: 60},
		},
		XTable: calibration.Table{
			{Pixel: 18, Value: 0, Delta: 0},
			{Pixel: 104, Value: 100, Delta: 86},
			{Pixel: 190, Value: 200, Delta: 86},
			{Pixel: 275, Value: 300, Delta: 85},
			{Pixel: 360, Value: 400, Delta: 85},
			{Pixel: 445, Value: 500, Delta: 85},
			{Pixel: 531, Value: 600, Delta: 86},
			{Pixel: 616, Value: 700, Delta: 85},
			{Pixel: 701, Value: 800, Delta: 85},
			{Pixel: 787, Value: 900, Delta: 86},
			{Pixel: 872, Value: 1000, Delta: 85},
		},
		ExpectedSize: image.Pt(1024, 600),
	}
}

// MinX is the leftmost graph column; the curve is extended up to it.
func (p Profile) MinX() int { return p.GraphLimits.UpperLeftX }

// MaxX is the rightmost graph column, full scale frequency.
func (p Profile) MaxX() int { return p.GraphLimits.DownRightX }

// ZeroColumn is the first column that holds measured samples.
func (p Profile) ZeroColumn() int {
	if len(p.Zones) == 0 {
		return p.MinX()
	}
	return p.Zones[0].UpperLeftX
}

// Validate checks the tables and that every zone fits the expected screen.
func (p Profile) Validate() error {
	if err := p.YTable.Validate(); err != nil {
		return fmt.Errorf("%w: y table: %w", ErrInvalidProfile, err)
	}
	if err := p.XTable.Validate(); err != nil {
		return fmt.Errorf("%w: x table: %w", ErrInvalidProfile, err)
	}

	screen := image.Rect(0, 0, p.ExpectedSize.X, p.ExpectedSize.Y)
	if screen.Empty() {
		return fmt.Errorf("%w: expected size %v is empty", ErrInvalidProfile, p.ExpectedSize)
	}

	l := p.GraphLimits
	if l.DownRightX <= l.UpperLeftX || l.DownRightY <= l.UpperLeftY {
		return fmt.Errorf("%w: graph limits %s are empty", ErrInvalidProfile, l)
	}
	if !image.Pt(l.DownRightX, l.DownRightY).In(screen) || !image.Pt(l.UpperLeftX, l.UpperLeftY).In(screen) {
		return fmt.Errorf("%w: graph limits %s outside %v", ErrInvalidProfile, l, p.ExpectedSize)
	}

	if len(p.Zones) == 0 {
		return fmt.Errorf("%w: no search zones", ErrInvalidProfile)
	}
	for i, z := range p.Zones {
		r := image.Rect(z.UpperLeftX, z.UpperLeftY, z.DownRightX, z.DownRightY)
		if z.Width() <= 0 || z.Height() <= 0 {
			return fmt.Errorf("%w: zone %d %s is empty", ErrInvalidProfile, i, z)
		}
		if !r.In(screen) {
			return fmt.Errorf("%w: zone %d %s outside %v", ErrInvalidProfile, i, z, p.ExpectedSize)
		}
	}
	if p.ZeroColumn() < p.MinX() {
		return fmt.Errorf("%w: first zone starts left of column %d", ErrInvalidProfile, p.MinX())
	}

	return nil
}
