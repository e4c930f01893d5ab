// Package annotate marks located samples and calibration points on a copy
// of the screenshot so the extraction can be checked by eye.
package annotate

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/pkg/models"
)

// Markers are the colours written onto the annotated copy.
type Markers struct {
	Signal    color.RGBA
	Extension color.RGBA
	GridY     color.RGBA
	GridX     color.RGBA
	ZeroRef   color.RGBA
}

// Options select which marks are drawn.
type Options struct {
	Corners bool
	Samples bool
	GridY   bool
	GridX   bool
}

// Annotator draws markers for one calibration profile.
type Annotator struct {
	markers        Markers
	opts           Options
	limits         models.Zone // graph corners, inclusive
	extensionLimit int         // samples left of this column are synthetic
	yTable         calibration.Table
	xTable         calibration.Table
}

// New creates an annotator. limits holds the graph corner pixels and
// extensionLimit is the left edge of the first search zone.
func New(markers Markers, opts Options, limits models.Zone, extensionLimit int, yTable, xTable calibration.Table) *Annotator {
	return &Annotator{
		markers:        markers,
		opts:           opts,
		limits:         limits,
		extensionLimit: extensionLimit,
		yTable:         yTable,
		xTable:         xTable,
	}
}

// Copy returns a writable RGBA copy of src with the same bounds.
func Copy(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// Annotate writes the enabled marks onto dst. Marks outside dst are dropped.
func (a *Annotator) Annotate(dst draw.Image, samples []models.RawSample) {
	if a.opts.Corners {
		l := a.limits
		for _, p := range []image.Point{
			{X: l.UpperLeftX, Y: l.UpperLeftY},
			{X: l.UpperLeftX, Y: l.DownRightY},
			{X: l.DownRightX, Y: l.UpperLeftY},
			{X: l.DownRightX, Y: l.DownRightY},
		} {
			set(dst, p.X, p.Y, a.markers.Signal)
		}
	}

	if a.opts.Samples {
		for _, s := range samples {
			c := a.markers.Signal
			if s.X < a.extensionLimit {
				c = a.markers.Extension
			}
			set(dst, s.X, row(s.Y), c)
		}
	}

	if a.opts.GridY {
		for _, e := range a.yTable {
			set(dst, a.limits.UpperLeftX, e.Pixel, a.markers.GridY)
		}
	}

	if a.opts.GridX {
		for _, e := range a.xTable {
			set(dst, e.Pixel, a.limits.DownRightY, a.markers.GridX)
		}
	}
}

// MarkZeroReference marks the pixel used as the 0 dBV reference.
func (a *Annotator) MarkZeroReference(dst draw.Image, x int, y float64) {
	set(dst, x, row(y), a.markers.ZeroRef)
}

// row rounds half-pixel midpoints to even rows.
func row(y float64) int {
	return int(math.RoundToEven(y))
}

func set(dst draw.Image, x, y int, c color.Color) {
	if !image.Pt(x, y).In(dst.Bounds()) {
		return
	}
	dst.Set(x, y, c)
}
