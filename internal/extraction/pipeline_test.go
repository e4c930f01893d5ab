package extraction

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/scopefft/internal/annotate"
	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/internal/config"
	"github.com/RMahshie/scopefft/internal/curve"
	"github.com/RMahshie/scopefft/internal/imageio"
	"github.com/RMahshie/scopefft/internal/table"
	"github.com/RMahshie/scopefft/pkg/models"
)

var trace = color.RGBA{R: 0xB0, G: 0x14, B: 0xE8, A: 0xff}

// testProfile is a 100x200 screen whose graph spans columns 20..90 for
// 0..1000 MHz and rows 150..190 for 0..-10 dBV. The search zone covers
// columns 20..90 inclusive.
func testProfile() config.Profile {
	p := config.SDS2354XPlus()
	p.Name = "test screen"
	p.CurveColor = trace
	p.GraphLimits = models.Zone{UpperLeftX: 20, UpperLeftY: 10, DownRightX: 90, DownRightY: 190}
	p.Zones = []models.Zone{{UpperLeftX: 20, UpperLeftY: 10, DownRightX: 91, DownRightY: 190}}
	p.YTable = calibration.Table{{Pixel: 150, Value: 0, Delta: 0}, {Pixel: 190, Value: -10, Delta: 40}}
	p.XTable = calibration.Table{{Pixel: 20, Value: 0, Delta: 0}, {Pixel: 90, Value: 1000, Delta: 70}}
	p.ExpectedSize = image.Pt(100, 200)
	return p
}

func testConfig() *config.Config {
	return &config.Config{
		Extraction: config.ExtractionConfig{
			ResampleSteps: []float64{10},
			RangeStartMHz: 0,
			RangeEndMHz:   1000,
		},
		Output: config.OutputConfig{
			Image:         "output_debug_img.png",
			OriginalTable: "dbVAttenuationTable_OriginalFreq_0_to_1_GHz.csv",
			ChartPNG:      "response.png",
			ChartHTML:     "response.html",
		},
	}
}

// flatScreenshot draws a one-pixel trace on row 150 over columns 20..90.
func flatScreenshot(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	for x := 20; x <= 90 && x < w; x++ {
		img.Set(x, 150, trace)
	}
	return img
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testProfile(), annotate.Options{Samples: true, GridY: true, GridX: true})
	require.NoError(t, err)
	return p
}

func TestPipeline_Run(t *testing.T) {
	p := newTestPipeline(t)
	img := flatScreenshot(100, 200)

	res, err := p.Run(img)
	require.NoError(t, err)

	// the curve starts at the left graph limit: nothing to extend
	assert.Zero(t, res.ExtendedCount)
	assert.Len(t, res.Mapped, 71)
	assert.Len(t, res.Raw, 71)
	assert.Equal(t, 20, res.ZeroRefX)
	assert.Equal(t, 150.0, res.ZeroRefY)
	assert.Zero(t, res.NonContiguousColumns)

	assert.Equal(t, 20, res.Mapped[0].PixelX)
	assert.InDelta(t, 0, res.Mapped[0].FrequencyMHz, 1e-9)
	assert.Equal(t, 90, res.Mapped[70].PixelX)
	assert.InDelta(t, 1000, res.Mapped[70].FrequencyMHz, 1e-9)
	for _, s := range res.Mapped {
		assert.InDelta(t, 0, s.AttenuationDBV, 1e-12)
		assert.InDelta(t, 1, s.VoltScale, 1e-12)
	}

	markers := testProfile().Markers
	assert.Equal(t, markers.Signal, res.Annotated.RGBAAt(50, 150))
	assert.Equal(t, markers.ZeroRef, res.Annotated.RGBAAt(20, 150))

	// the input is untouched
	assert.Equal(t, trace, img.RGBAAt(50, 150))
}

func TestPipeline_RunExtendsLeftOfFirstZone(t *testing.T) {
	profile := testProfile()
	profile.Zones[0].UpperLeftX = 30
	p, err := NewPipeline(profile, annotate.Options{Samples: true})
	require.NoError(t, err)

	res, err := p.Run(flatScreenshot(100, 200))
	require.NoError(t, err)

	// columns 21..29 are synthetic, 30..90 measured
	assert.Equal(t, 9, res.ExtendedCount)
	require.Len(t, res.Mapped, 70)
	assert.Equal(t, 21, res.Mapped[0].PixelX)
	assert.Equal(t, 30, res.ZeroRefX)
	for _, s := range res.Mapped {
		assert.InDelta(t, 0, s.AttenuationDBV, 1e-12)
	}

	markers := profile.Markers
	assert.Equal(t, markers.Extension, res.Annotated.RGBAAt(25, 150))
	assert.Equal(t, markers.Signal, res.Annotated.RGBAAt(50, 150))
	assert.Equal(t, markers.ZeroRef, res.Annotated.RGBAAt(30, 150))
}

func TestPipeline_RunErrors(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(flatScreenshot(50, 50))
	var mismatch *calibration.ResolutionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, image.Pt(100, 200), mismatch.Want)
	assert.Equal(t, image.Pt(50, 50), mismatch.Got)

	blank := image.NewRGBA(image.Rect(0, 0, 100, 200))
	_, err = p.Run(blank)
	assert.ErrorIs(t, err, curve.ErrEmptyCurve)
}

func TestNewPipeline_InvalidProfile(t *testing.T) {
	profile := testProfile()
	profile.Zones = nil

	_, err := NewPipeline(profile, annotate.Options{})
	assert.ErrorIs(t, err, config.ErrInvalidProfile)
}

func TestPipeline_ResampleAndProbe(t *testing.T) {
	p := newTestPipeline(t)
	res, err := p.Run(flatScreenshot(100, 200))
	require.NoError(t, err)

	resampled, err := p.Resample(res.Mapped, 10, 0, 1000)
	require.NoError(t, err)
	require.Len(t, resampled, 101)
	// the curve spans the whole band, so the floor points never apply
	for _, s := range resampled {
		assert.InDelta(t, 0, s.AttenuationDBV, 1e-9, "%g MHz", s.FrequencyMHz)
		assert.InDelta(t, 1, s.VoltScale, 1e-9)
	}
	assert.Equal(t, 1000.0, resampled[100].FrequencyMHz)

	probes, err := p.Probe(res.Mapped, []float64{5, 500})
	require.NoError(t, err)
	require.Len(t, probes, 2)
	for _, s := range probes {
		assert.InDelta(t, 0, s.AttenuationDBV, 1e-9)
		assert.InDelta(t, 1, s.VoltScale, 1e-9)
	}
}

func TestPipeline_Artifacts(t *testing.T) {
	p := newTestPipeline(t)
	cfg := testConfig()
	res, err := p.Run(flatScreenshot(100, 200))
	require.NoError(t, err)

	first, err := p.Artifacts(res, cfg)
	require.NoError(t, err)
	second, err := p.Artifacts(res, cfg)
	require.NoError(t, err)

	names := make([]string, len(first))
	for i, a := range first {
		names[i] = a.Name
	}
	assert.Equal(t, []string{
		"output_debug_img.png",
		"dbVAttenuationTable_OriginalFreq_0_to_1_GHz.csv",
		"dbVAttenuationTable_interpol_10M_step_0_to_1_GHz.csv",
		"response.png",
		"response.html",
	}, names)

	// tables and html are byte-for-byte repeatable
	for i := range first {
		if strings.HasSuffix(first[i].Name, ".png") {
			continue
		}
		assert.Equal(t, first[i].Data, second[i].Data, first[i].Name)
	}

	img, format, err := imageio.Decode(bytes.NewReader(first[0].Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(100, 200), img.Bounds().Size())

	mapped, err := table.ReadMapped(bytes.NewReader(first[1].Data))
	require.NoError(t, err)
	assert.Len(t, mapped, 71)

	resampled, err := table.ReadInterpolated(bytes.NewReader(first[2].Data))
	require.NoError(t, err)
	assert.Len(t, resampled, 101)
	assert.True(t, strings.HasPrefix(string(first[2].Data), "Frequency MHz,Attenuation dBV,VoltsScaleFactor\r\n"))

	assert.Contains(t, string(first[4].Data), "10 MHz step")
}

func TestPipeline_ArtifactsWithoutCharts(t *testing.T) {
	p := newTestPipeline(t)
	cfg := testConfig()
	cfg.Output.ChartPNG = ""
	cfg.Output.ChartHTML = ""
	cfg.Extraction.ResampleSteps = []float64{1, 10}

	res, err := p.Run(flatScreenshot(100, 200))
	require.NoError(t, err)

	artifacts, err := p.Artifacts(res, cfg)
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	assert.Equal(t, "dbVAttenuationTable_interpol_1M_step_0_to_1_GHz.csv", artifacts[2].Name)
	assert.Equal(t, "dbVAttenuationTable_interpol_10M_step_0_to_1_GHz.csv", artifacts[3].Name)
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	artifacts := []Artifact{
		{Name: "a.csv", ContentType: "text/csv", Data: []byte("x\r\n")},
		{Name: "b.html", ContentType: "text/html", Data: []byte("<html></html>")},
	}

	require.NoError(t, WriteArtifacts(dir, artifacts))
	for _, a := range artifacts {
		got, err := os.ReadFile(filepath.Join(dir, a.Name))
		require.NoError(t, err)
		assert.Equal(t, a.Data, got)
	}

	// a file where the directory should be
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err := WriteArtifacts(filepath.Join(blocker, "out"), artifacts)
	assert.ErrorIs(t, err, ErrOutput)
}

func TestPipeline_HTMLChart(t *testing.T) {
	p := newTestPipeline(t)
	res, err := p.Run(flatScreenshot(100, 200))
	require.NoError(t, err)

	html, err := p.HTMLChart(res.Mapped, 50, 0, 1000)
	require.NoError(t, err)
	assert.Contains(t, string(html), "50 MHz step")
	assert.Contains(t, string(html), "test screen attenuation")

	_, err = p.HTMLChart(res.Mapped, 0, 0, 1000)
	assert.Error(t, err)
}
