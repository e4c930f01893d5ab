package annotate

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/pkg/models"
)

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	gray  = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

func testAnnotator(opts Options) *Annotator {
	markers := Markers{Signal: white, Extension: red, GridY: green, GridX: blue, ZeroRef: green}
	limits := models.Zone{UpperLeftX: 2, UpperLeftY: 1, DownRightX: 30, DownRightY: 18}
	yTable := calibration.Table{{Pixel: 4, Value: -12}, {Pixel: 10, Value: -14, Delta: 6}, {Pixel: 25, Value: -16, Delta: 15}}
	xTable := calibration.Table{{Pixel: 2, Value: 0}, {Pixel: 16, Value: 500, Delta: 14}, {Pixel: 30, Value: 1000, Delta: 14}}
	return New(markers, opts, limits, 8, yTable, xTable)
}

func TestCopy(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, gray)

	dst := Copy(src)
	assert.Equal(t, src.Bounds(), dst.Bounds())
	assert.Equal(t, gray, dst.RGBAAt(1, 2))

	dst.Set(0, 0, red)
	assert.NotEqual(t, red, color.RGBAModel.Convert(src.At(0, 0)), "copy is independent")
}

func TestAnnotate(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 32, 20))
	samples := []models.RawSample{{X: 6, Y: 5}, {X: 7, Y: 5}, {X: 8, Y: 5}, {X: 9, Y: 6.5}, {X: 10, Y: 7.5}}

	testAnnotator(Options{Corners: true, Samples: true, GridY: true, GridX: true}).Annotate(dst, samples)

	assert.Equal(t, white, dst.RGBAAt(2, 1), "corner")
	assert.Equal(t, white, dst.RGBAAt(30, 1), "corner")
	assert.Equal(t, blue, dst.RGBAAt(30, 18), "grid x drawn over corner")
	assert.Equal(t, red, dst.RGBAAt(6, 5), "extension")
	assert.Equal(t, red, dst.RGBAAt(7, 5), "extension")
	assert.Equal(t, white, dst.RGBAAt(8, 5), "first real sample")
	assert.Equal(t, white, dst.RGBAAt(9, 6), "6.5 rounds to even")
	assert.Equal(t, white, dst.RGBAAt(10, 8), "7.5 rounds to even")
	assert.Equal(t, green, dst.RGBAAt(2, 10), "grid y")
	assert.Equal(t, blue, dst.RGBAAt(16, 18), "grid x")
	assert.Equal(t, green, dst.RGBAAt(2, 4), "grid y overrides corner column")
}

func TestAnnotate_Disabled(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 32, 20))
	testAnnotator(Options{}).Annotate(dst, []models.RawSample{{X: 9, Y: 5}})

	for _, p := range dst.Pix {
		assert.Zero(t, p)
	}
}

func TestAnnotate_SkipsOutOfBounds(t *testing.T) {
	// yTable row 25 is below a 20 pixel image
	dst := image.NewRGBA(image.Rect(0, 0, 32, 20))
	assert.NotPanics(t, func() {
		testAnnotator(Options{GridY: true, Samples: true}).Annotate(dst, []models.RawSample{{X: 40, Y: 3}})
	})
}

func TestMarkZeroReference(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 32, 20))
	testAnnotator(Options{}).MarkZeroReference(dst, 8, 5.5)
	assert.Equal(t, green, dst.RGBAAt(8, 6))
}
