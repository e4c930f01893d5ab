// Package table reads and writes the attenuation CSV tables.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RMahshie/scopefft/pkg/models"
)

// ErrMalformedCSV is returned when a table cannot be parsed back.
var ErrMalformedCSV = errors.New("malformed attenuation table")

var (
	// LongHeader heads the table at the original sample frequencies.
	LongHeader = []string{"Frequency MHz", "Attenuation dBV", "VoltsScaleFactor", "Pixel X", "Pixel Y"}
	// ShortHeader heads the fixed-step tables.
	ShortHeader = LongHeader[:3]
)

// WriteMapped writes samples with their pixel coordinates.
func WriteMapped(w io.Writer, samples []models.MappedSample) error {
	cw := newWriter(w)
	if err := cw.Write(LongHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.FrequencyMHz),
			formatFloat(s.AttenuationDBV),
			formatFloat(s.VoltScale),
			strconv.Itoa(s.PixelX),
			formatFloat(s.PixelY),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInterpolated writes a fixed-step table.
func WriteInterpolated(w io.Writer, samples []models.InterpolatedSample) error {
	cw := newWriter(w)
	if err := cw.Write(ShortHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.FrequencyMHz),
			formatFloat(s.AttenuationDBV),
			formatFloat(s.VoltScale),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns the header row and the data rows of a table.
func Read(r io.Reader) ([]string, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}
	return records[0], records[1:], nil
}

// ReadMapped parses a table written by WriteMapped.
func ReadMapped(r io.Reader) ([]models.MappedSample, error) {
	header, rows, err := Read(r)
	if err != nil {
		return nil, err
	}
	if !equalHeader(header, LongHeader) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, header)
	}

	out := make([]models.MappedSample, 0, len(rows))
	for i, row := range rows {
		vals, err := parseFloats(row[:3], i)
		if err != nil {
			return nil, err
		}
		x, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: pixel x %q", ErrMalformedCSV, i+1, row[3])
		}
		y, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: pixel y %q", ErrMalformedCSV, i+1, row[4])
		}
		out = append(out, models.MappedSample{
			FrequencyMHz:   vals[0],
			AttenuationDBV: vals[1],
			VoltScale:      vals[2],
			PixelX:         x,
			PixelY:         y,
		})
	}
	return out, nil
}

// ReadInterpolated parses a table written by WriteInterpolated.
func ReadInterpolated(r io.Reader) ([]models.InterpolatedSample, error) {
	header, rows, err := Read(r)
	if err != nil {
		return nil, err
	}
	if !equalHeader(header, ShortHeader) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, header)
	}

	out := make([]models.InterpolatedSample, 0, len(rows))
	for i, row := range rows {
		vals, err := parseFloats(row, i)
		if err != nil {
			return nil, err
		}
		out = append(out, models.InterpolatedSample{
			FrequencyMHz:   vals[0],
			AttenuationDBV: vals[1],
			VoltScale:      vals[2],
		})
	}
	return out, nil
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func parseFloats(fields []string, row int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q is not a number", ErrMalformedCSV, row+1, f)
		}
		out[i] = v
	}
	return out, nil
}

// formatFloat renders the shortest round-tripping decimal, always with a
// fractional part, switching to exponent form below 1e-4 and from 1e16.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
