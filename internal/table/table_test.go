package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/scopefft/pkg/models"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{116, "116.0"},
		{-0.5, "-0.5"},
		{0.1, "0.1"},
		{1.1705, "1.1705"},
		{0.0001, "0.0001"},
		{1e-05, "1e-05"},
		{-2.5e-7, "-2.5e-07"},
		{123456789, "123456789.0"},
		{1e16, "1e+16"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.in))
		})
	}
}

func TestWriteMapped(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMapped(&buf, []models.MappedSample{
		{FrequencyMHz: 18.735362997658083, AttenuationDBV: 0, VoltScale: 1, PixelX: 34, PixelY: 116},
		{FrequencyMHz: 20, AttenuationDBV: -0.25, VoltScale: 0.9716279515771061, PixelX: 35, PixelY: 123.5},
	})
	require.NoError(t, err)

	want := "Frequency MHz,Attenuation dBV,VoltsScaleFactor,Pixel X,Pixel Y\r\n" +
		"18.735362997658083,0.0,1.0,34,116.0\r\n" +
		"20.0,-0.25,0.9716279515771061,35,123.5\r\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteInterpolated(t *testing.T) {
	var buf bytes.Buffer
	err := WriteInterpolated(&buf, []models.InterpolatedSample{
		{FrequencyMHz: 0, AttenuationDBV: 0, VoltScale: 1},
		{FrequencyMHz: 10, AttenuationDBV: -100, VoltScale: 1e-05},
		{FrequencyMHz: 10.5, AttenuationDBV: -1.5, VoltScale: 0.8413951416451951},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	assert.Equal(t, []string{
		"Frequency MHz,Attenuation dBV,VoltsScaleFactor",
		"0.0,0.0,1.0",
		"10.0,-100.0,1e-05",
		"10.5,-1.5,0.8413951416451951",
	}, lines)
}

func TestMappedRoundTrip(t *testing.T) {
	samples := []models.MappedSample{
		{FrequencyMHz: 18.735362997658083, AttenuationDBV: 0, VoltScale: 1, PixelX: 34, PixelY: 116},
		{FrequencyMHz: 445.0, AttenuationDBV: -3.1933471933471935, VoltScale: 0.6925, PixelX: 400, PixelY: 212},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMapped(&buf, samples))

	got, err := ReadMapped(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(samples, got); diff != "" {
		t.Errorf("ReadMapped mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolatedRoundTrip(t *testing.T) {
	samples := []models.InterpolatedSample{
		{FrequencyMHz: 0, AttenuationDBV: 0, VoltScale: 1},
		{FrequencyMHz: 1000, AttenuationDBV: -100, VoltScale: 1e-05},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteInterpolated(&buf, samples))

	got, err := ReadInterpolated(&buf)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestRead(t *testing.T) {
	header, rows, err := Read(strings.NewReader("a,b\r\n1,2\r\n3,4\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, rows)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		read func(string) error
	}{
		{"empty", "", func(s string) error { _, _, err := Read(strings.NewReader(s)); return err }},
		{"ragged", "a,b\n1\n", func(s string) error { _, _, err := Read(strings.NewReader(s)); return err }},
		{"short header", "Frequency MHz,Attenuation dBV,VoltsScaleFactor\n1,2,3\n", func(s string) error {
			_, err := ReadMapped(strings.NewReader(s))
			return err
		}},
		{"bad number", "Frequency MHz,Attenuation dBV,VoltsScaleFactor\n1,x,3\n", func(s string) error {
			_, err := ReadInterpolated(strings.NewReader(s))
			return err
		}},
		{"bad pixel", "Frequency MHz,Attenuation dBV,VoltsScaleFactor,Pixel X,Pixel Y\n1,2,3,4.5,6\n", func(s string) error {
			_, err := ReadMapped(strings.NewReader(s))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.read(tt.in), ErrMalformedCSV)
		})
	}
}
