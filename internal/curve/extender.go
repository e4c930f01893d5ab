package curve

import (
	"github.com/RMahshie/scopefft/pkg/models"
)

// Extend holds the first sample's row flat leftward, adding one synthetic
// sample for every column from minX+1 up to the first located column.
// The input slice is not modified.
func Extend(samples []models.RawSample, minX int) ([]models.RawSample, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyCurve
	}

	first := samples[0]
	n := first.X - (minX + 1)
	if n < 0 {
		n = 0
	}

	out := make([]models.RawSample, 0, n+len(samples))
	for x := minX + 1; x < first.X; x++ {
		out = append(out, models.RawSample{X: x, Y: first.Y})
	}
	out = append(out, samples...)

	return out, nil
}
