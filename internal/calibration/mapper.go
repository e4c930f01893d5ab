package calibration

import (
	"errors"
	"fmt"

	"github.com/RMahshie/scopefft/internal/units"
	"github.com/RMahshie/scopefft/pkg/models"
)

// FullScaleMHz is the frequency at the right graph limit.
const FullScaleMHz = 1000.0

// ErrNoZeroReference is returned when no sample lies at or right of the zero column.
var ErrNoZeroReference = errors.New("calibration: no sample at the zero reference column")

// Mapper converts pixel samples to frequency and attenuation.
//
// Frequency comes from the graph limits. Attenuation uses two references: its
// zero row is where the measured curve sits at the zero column, and its scale
// (dBV per pixel) is the attenuation table's first-to-last span.
type Mapper struct {
	frequency   Axis
	dBVPerPixel float64
	zeroColumn  int
}

// NewMapper builds a mapper from the graph's left/right pixel limits, the
// attenuation table and the first real curve column.
func NewMapper(minX, maxX int, attenuation Table, zeroColumn int) (*Mapper, error) {
	if maxX <= minX {
		return nil, fmt.Errorf("calibration: graph limits %d..%d are empty", minX, maxX)
	}
	if err := attenuation.Validate(); err != nil {
		return nil, fmt.Errorf("attenuation table: %w", err)
	}

	return &Mapper{
		frequency: Axis{
			FromPixel: float64(minX),
			ToPixel:   float64(maxX),
			FromValue: 0,
			ToValue:   FullScaleMHz,
		},
		dBVPerPixel: attenuation.Normalized().Axis().Slope(),
		zeroColumn:  zeroColumn,
	}, nil
}

// ZeroReference returns the row of the first sample at or right of the zero
// column. Samples must be ascending by x.
func (m *Mapper) ZeroReference(samples []models.RawSample) (float64, error) {
	for _, s := range samples {
		if s.X >= m.zeroColumn {
			return s.Y, nil
		}
	}
	return 0, fmt.Errorf("%w: column %d", ErrNoZeroReference, m.zeroColumn)
}

// Frequency maps a pixel column to MHz.
func (m *Mapper) Frequency(x int) float64 {
	return m.frequency.Value(float64(x))
}

// Map converts every sample, preserving length and order. It also returns the
// zero reference row it used.
func (m *Mapper) Map(samples []models.RawSample) ([]models.MappedSample, float64, error) {
	zeroY, err := m.ZeroReference(samples)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.MappedSample, len(samples))
	for i, s := range samples {
		dBV := (s.Y - zeroY) * m.dBVPerPixel
		out[i] = models.MappedSample{
			FrequencyMHz:   m.Frequency(s.X),
			AttenuationDBV: dBV,
			VoltScale:      units.VoltFactor(dBV),
			PixelX:         s.X,
			PixelY:         s.Y,
		}
	}

	return out, zeroY, nil
}
