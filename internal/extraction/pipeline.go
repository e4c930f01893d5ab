// Package extraction runs a screenshot through location, calibration and
// resampling, and turns the outcome into output files.
package extraction

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/scopefft/internal/annotate"
	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/internal/config"
	"github.com/RMahshie/scopefft/internal/curve"
	"github.com/RMahshie/scopefft/internal/interpolate"
	"github.com/RMahshie/scopefft/pkg/models"
)

// Result is the outcome of one run over one screenshot.
type Result struct {
	Raw                  []models.RawSample // extended, ascending by x
	ExtendedCount        int
	Mapped               []models.MappedSample
	ZeroRefX             int
	ZeroRefY             float64
	NonContiguousColumns int
	Annotated            *image.RGBA
}

// Pipeline holds everything derived from a calibration profile. It is safe
// for concurrent use; every Run works on its own copies.
type Pipeline struct {
	profile   config.Profile
	locator   *curve.Locator
	mapper    *calibration.Mapper
	annotator *annotate.Annotator
	boundary  interpolate.Boundary
}

// NewPipeline validates the profile and prepares the stages.
func NewPipeline(profile config.Profile, opts annotate.Options) (*Pipeline, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	mapper, err := calibration.NewMapper(profile.MinX(), profile.MaxX(), profile.YTable, profile.ZeroColumn())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidProfile, err)
	}

	return &Pipeline{
		profile:   profile,
		locator:   curve.NewLocator(profile.CurveColor),
		mapper:    mapper,
		annotator: annotate.New(profile.Markers, opts, profile.GraphLimits, profile.ZeroColumn(), profile.YTable, profile.XTable),
		boundary:  interpolate.DefaultBoundary(),
	}, nil
}

// Profile returns the calibration the pipeline was built with.
func (p *Pipeline) Profile() config.Profile {
	return p.profile
}

// Run locates, extends and maps the curve in img and draws the annotated copy.
// img is only read.
func (p *Pipeline) Run(img image.Image) (*Result, error) {
	if err := calibration.CheckResolution(img.Bounds(), p.profile.ExpectedSize); err != nil {
		return nil, err
	}

	located, err := p.locator.Locate(img, p.profile.Zones)
	if err != nil {
		return nil, err
	}
	if located.NonContiguousColumns > 0 {
		log.Warn().
			Int("columns", located.NonContiguousColumns).
			Msg("Curve colour matched in separated runs; midpoint may sit off the trace")
	}
	log.Debug().Ints("zone_counts", located.ZoneCounts).Int("samples", len(located.Samples)).Msg("Curve located")

	extended, err := curve.Extend(located.Samples, p.profile.MinX())
	if err != nil {
		return nil, err
	}
	added := len(extended) - len(located.Samples)

	mapped, zeroY, err := p.mapper.Map(extended)
	if err != nil {
		return nil, err
	}

	zeroX := p.profile.ZeroColumn()
	for _, s := range extended {
		if s.X >= zeroX {
			zeroX = s.X
			break
		}
	}
	log.Info().
		Int("samples", len(mapped)).
		Int("extended", added).
		Int("zero_ref_x", zeroX).
		Float64("zero_ref_y", zeroY).
		Msg("Curve mapped to MHz / dBV")

	annotated := annotate.Copy(img)
	p.annotator.Annotate(annotated, extended)
	p.annotator.MarkZeroReference(annotated, zeroX, zeroY)

	return &Result{
		Raw:                  extended,
		ExtendedCount:        added,
		Mapped:               mapped,
		ZeroRefX:             zeroX,
		ZeroRefY:             zeroY,
		NonContiguousColumns: located.NonContiguousColumns,
		Annotated:            annotated,
	}, nil
}

// Resample interpolates mapped samples onto a fixed frequency grid.
func (p *Pipeline) Resample(mapped []models.MappedSample, step, start, end float64) ([]models.InterpolatedSample, error) {
	return interpolate.Resample(mapped, step, start, end, p.boundary)
}

// Probe returns the interpolated attenuation at each frequency.
func (p *Pipeline) Probe(mapped []models.MappedSample, freqs []float64) ([]models.InterpolatedSample, error) {
	it, err := interpolate.New(mapped)
	if err != nil {
		return nil, err
	}
	out := make([]models.InterpolatedSample, len(freqs))
	for i, f := range freqs {
		out[i] = it.At(f)
	}
	return out, nil
}
