package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/scopefft/internal/config"
	"github.com/RMahshie/scopefft/internal/imageio"
	"github.com/RMahshie/scopefft/internal/report"
	"github.com/RMahshie/scopefft/internal/table"
	"github.com/RMahshie/scopefft/pkg/models"
)

// ErrOutput is returned when an artifact cannot be written.
var ErrOutput = errors.New("output write failed")

// Artifact is one generated output file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Artifacts renders the annotated image, the original-frequency table, one
// table per resample step and, when named, the PNG and HTML charts. The order
// is fixed so repeated runs produce the same list.
func (p *Pipeline) Artifacts(res *Result, cfg *config.Config) ([]Artifact, error) {
	var out []Artifact

	img, err := imageio.EncodePNG(res.Annotated)
	if err != nil {
		return nil, err
	}
	out = append(out, Artifact{Name: cfg.Output.Image, ContentType: imageio.ContentType("png"), Data: img})

	var buf bytes.Buffer
	if err := table.WriteMapped(&buf, res.Mapped); err != nil {
		return nil, fmt.Errorf("original table: %w", err)
	}
	out = append(out, Artifact{Name: cfg.Output.OriginalTable, ContentType: "text/csv", Data: bytes.Clone(buf.Bytes())})

	chart := report.Chart{
		Title:  fmt.Sprintf("%s attenuation", p.profile.Name),
		Series: []report.Series{{Name: "measured", Points: mappedPoints(res.Mapped)}},
	}

	for _, step := range cfg.Extraction.ResampleSteps {
		resampled, err := p.Resample(res.Mapped, step, cfg.Extraction.RangeStartMHz, cfg.Extraction.RangeEndMHz)
		if err != nil {
			return nil, fmt.Errorf("resample %g MHz: %w", step, err)
		}

		buf.Reset()
		if err := table.WriteInterpolated(&buf, resampled); err != nil {
			return nil, fmt.Errorf("resampled table: %w", err)
		}
		out = append(out, Artifact{Name: cfg.ResampleTableFile(step), ContentType: "text/csv", Data: bytes.Clone(buf.Bytes())})

		chart.Series = append(chart.Series, report.Series{
			Name:   strconv.FormatFloat(step, 'f', -1, 64) + " MHz step",
			Points: interpolatedPoints(resampled),
		})
	}

	if cfg.Output.ChartPNG != "" {
		buf.Reset()
		if err := report.WritePNG(&buf, chart); err != nil {
			return nil, err
		}
		out = append(out, Artifact{Name: cfg.Output.ChartPNG, ContentType: imageio.ContentType("png"), Data: bytes.Clone(buf.Bytes())})
	}
	if cfg.Output.ChartHTML != "" {
		buf.Reset()
		if err := report.WriteHTML(&buf, chart); err != nil {
			return nil, err
		}
		out = append(out, Artifact{Name: cfg.Output.ChartHTML, ContentType: "text/html; charset=utf-8", Data: bytes.Clone(buf.Bytes())})
	}

	return out, nil
}

// WriteArtifacts writes every artifact into dir, creating it if needed.
func WriteArtifacts(dir string, artifacts []Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrOutput, dir, err)
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrOutput, path, err)
		}
		log.Info().Str("file", path).Int("bytes", len(a.Data)).Msg("Artifact written")
	}
	return nil
}

// HTMLChart renders the measured curve and one resampled grid as HTML.
func (p *Pipeline) HTMLChart(mapped []models.MappedSample, step, start, end float64) ([]byte, error) {
	resampled, err := p.Resample(mapped, step, start, end)
	if err != nil {
		return nil, err
	}

	chart := report.Chart{
		Title: fmt.Sprintf("%s attenuation", p.profile.Name),
		Series: []report.Series{
			{Name: "measured", Points: mappedPoints(mapped)},
			{Name: strconv.FormatFloat(step, 'f', -1, 64) + " MHz step", Points: interpolatedPoints(resampled)},
		},
	}

	var buf bytes.Buffer
	if err := report.WriteHTML(&buf, chart); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappedPoints(samples []models.MappedSample) []report.Point {
	pts := make([]report.Point, len(samples))
	for i, s := range samples {
		pts[i] = report.Point{FrequencyMHz: s.FrequencyMHz, AttenuationDBV: s.AttenuationDBV}
	}
	return pts
}

func interpolatedPoints(samples []models.InterpolatedSample) []report.Point {
	pts := make([]report.Point, len(samples))
	for i, s := range samples {
		pts[i] = report.Point{FrequencyMHz: s.FrequencyMHz, AttenuationDBV: s.AttenuationDBV}
	}
	return pts
}
