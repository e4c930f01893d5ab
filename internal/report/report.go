// Package report renders the extracted frequency response as charts.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("report: no samples to plot")

// Series is one named curve in MHz / dBV.
type Series struct {
	Name   string
	Points []Point
}

// Point is one chart vertex.
type Point struct {
	FrequencyMHz   float64
	AttenuationDBV float64
}

// Chart is a set of curves sharing the frequency axis.
type Chart struct {
	Title  string
	Series []Series
}

func (c Chart) empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

var palette = []color.RGBA{
	{R: 0xB0, G: 0x14, B: 0xE8, A: 0xff},
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// WritePNG draws the chart with gonum/plot and writes it as PNG.
func WritePNG(w io.Writer, c Chart) error {
	if c.empty() {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "Frequency (MHz)"
	p.Y.Label.Text = "Attenuation (dBV)"
	p.Add(plotter.NewGrid())

	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = plotter.XY{X: pt.FrequencyMHz, Y: pt.AttenuationDBV}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.Width = vg.Points(1)
		line.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// WriteHTML renders the chart as a self-contained go-echarts page.
func WriteHTML(w io.Writer, c Chart) error {
	if c.empty() {
		return ErrNoData
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.Title, ChartID: "attenuation", Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "MHz", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "dBV", NameLocation: "middle", NameGap: 35}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	for _, s := range c.Series {
		data := make([]opts.LineData, len(s.Points))
		for j, pt := range s.Points {
			data[j] = opts.LineData{Value: []interface{}{pt.FrequencyMHz, pt.AttenuationDBV}}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
