package config

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "output_out", cfg.Output.Dir)
	assert.Equal(t, "output_debug_img.png", cfg.Output.Image)
	assert.Equal(t, "dbVAttenuationTable_OriginalFreq_0_to_1_GHz.csv", cfg.Output.OriginalTable)
	assert.Equal(t, []float64{1, 10}, cfg.Extraction.ResampleSteps)
	assert.Equal(t, []float64{430, 500, 570}, cfg.Extraction.ProbeFrequencies)
	assert.Equal(t, 0.0, cfg.Extraction.RangeStartMHz)
	assert.Equal(t, 1000.0, cfg.Extraction.RangeEndMHz)
	assert.False(t, cfg.Annotate.Corners)
	assert.True(t, cfg.Annotate.Samples)
	assert.True(t, cfg.Annotate.GridY)
	assert.True(t, cfg.Annotate.GridX)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RESAMPLE_STEPS", "5, 2.5")
	t.Setenv("ANNOTATE_CORNERS", "true")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 2.5}, cfg.Extraction.ResampleSteps)
	assert.True(t, cfg.Annotate.Corners)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadNumberList(t *testing.T) {
	t.Setenv("PROBE_FREQUENCIES", "430,abc")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Extraction.InputImage = "in.png"
		c.Extraction.ResampleSteps = []float64{10}
		c.Extraction.RangeEndMHz = 1000
		c.Output.Dir = "out"
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no input", func(c *Config) { c.Extraction.InputImage = "" }},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }},
		{"zero step", func(c *Config) { c.Extraction.ResampleSteps = []float64{10, 0} }},
		{"negative step", func(c *Config) { c.Extraction.ResampleSteps = []float64{-1} }},
		{"inverted range", func(c *Config) { c.Extraction.RangeStartMHz = 2000 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestResampleTableFile(t *testing.T) {
	c := &Config{}
	c.Extraction.RangeEndMHz = 1000

	assert.Equal(t, "dbVAttenuationTable_interpol_10M_step_0_to_1_GHz.csv", c.ResampleTableFile(10))
	assert.Equal(t, "dbVAttenuationTable_interpol_1M_step_0_to_1_GHz.csv", c.ResampleTableFile(1))
	assert.Equal(t, "dbVAttenuationTable_interpol_0p5M_step_0_to_1_GHz.csv", c.ResampleTableFile(0.5))

	c.Extraction.RangeStartMHz = 400
	c.Extraction.RangeEndMHz = 600
	assert.Equal(t, "dbVAttenuationTable_interpol_1M_step_400_to_600_MHz.csv", c.ResampleTableFile(1))
}

func TestAnnotateOptions(t *testing.T) {
	opts := AnnotateConfig{Samples: true, GridX: true}.Options()
	assert.False(t, opts.Corners)
	assert.True(t, opts.Samples)
	assert.False(t, opts.GridY)
	assert.True(t, opts.GridX)
}

func TestSDS2354XPlus(t *testing.T) {
	p := SDS2354XPlus()
	require.NoError(t, p.Validate())

	assert.Equal(t, 18, p.MinX())
	assert.Equal(t, 872, p.MaxX())
	assert.Equal(t, 34, p.ZeroColumn())

	// calibration tables agree with the graph limits
	assert.Equal(t, p.MinX(), p.XTable.First().Pixel)
	assert.Equal(t, p.MaxX(), p.XTable.Last().Pixel)

	x := p.XTable.Axis()
	for _, e := range p.XTable {
		assert.InDelta(t, e.Value, x.Value(float64(e.Pixel)), 2, "column %d", e.Pixel)
	}
	y := p.YTable.Axis()
	for _, e := range p.YTable {
		assert.InDelta(t, e.Value, y.Value(float64(e.Pixel)), 0.05, "row %d", e.Pixel)
	}
}

func TestSDS2354XPlus_Independent(t *testing.T) {
	a := SDS2354XPlus()
	a.Zones[0].UpperLeftX = 0
	a.YTable[0].Value = 99

	b := SDS2354XPlus()
	assert.Equal(t, 34, b.Zones[0].UpperLeftX)
	assert.Equal(t, -12.0, b.YTable[0].Value)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"bad y table", func(p *Profile) { p.YTable[1].Delta = 1 }},
		{"bad x table", func(p *Profile) { p.XTable = p.XTable[:1] }},
		{"empty screen", func(p *Profile) { p.ExpectedSize = image.Point{} }},
		{"limits outside", func(p *Profile) { p.GraphLimits.DownRightX = 2000 }},
		{"inverted limits", func(p *Profile) { p.GraphLimits.DownRightY = 10 }},
		{"no zones", func(p *Profile) { p.Zones = nil }},
		{"empty zone", func(p *Profile) { p.Zones[0].DownRightX = p.Zones[0].UpperLeftX }},
		{"zone outside", func(p *Profile) {
			p.Zones = append(p.Zones, models.Zone{UpperLeftX: 900, UpperLeftY: 500, DownRightX: 1100, DownRightY: 700})
		}},
		{"zone left of min x", func(p *Profile) { p.Zones[0].UpperLeftX = 17 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SDS2354XPlus()
			tt.mutate(&p)
			err := p.Validate()
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}

	p := SDS2354XPlus()
	p.YTable[1].Delta = 1
	assert.ErrorIs(t, p.Validate(), calibration.ErrMalformedTable)
}

func TestProfileValidate_ZoneAtMinX(t *testing.T) {
	// nothing to extend when the curve starts at the left graph limit
	p := SDS2354XPlus()
	p.Zones[0].UpperLeftX = p.MinX()
	assert.NoError(t, p.Validate())
	assert.Equal(t, p.MinX(), p.ZeroColumn())
}
