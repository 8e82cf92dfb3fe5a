// Package render draws a spectrum as a PNG or SVG image.
package render

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/wifiscope/pkg/models"
)

const (
	FormatPNG = "png"
	FormatSVG = "svg"

	DefaultWidth  = 1100
	DefaultHeight = 560

	plotTop = -20.0
)

// palette is matplotlib's tab10
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var (
	connectedColor = drawing.ColorFromHex("D32F2F")
	gridColor      = drawing.ColorFromHex("999999")
	labelColor     = drawing.ColorFromHex("333333")
)

// Options controls the output image
type Options struct {
	Format string
	Width  int
	Height int
}

// ContentType returns the MIME type for a format
func ContentType(format string) string {
	if strings.EqualFold(format, FormatSVG) {
		return "image/svg+xml"
	}
	return "image/png"
}

// Plot renders spec to w
func Plot(w io.Writer, spec *models.Spectrum, opts Options) error {
	if spec == nil {
		return fmt.Errorf("no spectrum to render")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	var provider chart.RendererProvider
	switch strings.ToLower(opts.Format) {
	case "", FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported plot format %q", opts.Format)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Wi-Fi Spectrum (%s)", spec.Band),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Channel",
			Range:          &chart.ContinuousRange{Min: spec.AxisMin, Max: spec.AxisMax},
			Ticks:          ticks(spec.Ticks),
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           "Signal (dBm)",
			Range:          &chart.ContinuousRange{Min: spec.NoiseFloor, Max: plotTop},
			GridMajorStyle: gridStyle(),
		},
		Series: series(spec),
	}

	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render spectrum: %w", err)
	}
	return nil
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor:     gridColor.WithAlpha(128),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}
}

func ticks(channels []int) []chart.Tick {
	out := make([]chart.Tick, 0, len(channels))
	for _, ch := range channels {
		out = append(out, chart.Tick{Value: float64(ch), Label: fmt.Sprintf("%d", ch)})
	}
	return out
}

// series builds one filled curve per network plus a label layer. The
// connected network is drawn last so it sits on top.
func series(spec *models.Spectrum) []chart.Series {
	if len(spec.Series) == 0 {
		return emptySeries(spec)
	}

	ordered := make([]models.SpectrumSeries, 0, len(spec.Series))
	var connected []models.SpectrumSeries
	for _, s := range spec.Series {
		if s.Connected {
			connected = append(connected, s)
			continue
		}
		ordered = append(ordered, s)
	}
	ordered = append(ordered, connected...)

	out := make([]chart.Series, 0, len(ordered)+1)
	labels := chart.AnnotationSeries{Name: "networks"}

	for _, s := range ordered {
		color := palette[s.Index%len(palette)]
		width := 1.5
		if s.Connected {
			color = connectedColor
			width = 2.5
		}

		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}

		out = append(out, chart.ContinuousSeries{
			Name: s.SSID,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: width,
				FillColor:   color.WithAlpha(77),
			},
			XValues: xs,
			YValues: ys,
		})

		labels.Annotations = append(labels.Annotations, chart.Value2{
			XValue: float64(s.Channel),
			YValue: float64(s.Signal) + 2,
			Label:  s.SSID,
			Style:  labelStyle(s.Connected),
		})
	}

	return append(out, labels)
}

func labelStyle(connected bool) chart.Style {
	style := chart.Style{
		FontColor:   drawing.ColorBlack,
		FontSize:    9,
		FillColor:   drawing.ColorWhite.WithAlpha(180),
		StrokeColor: drawing.ColorWhite.WithAlpha(0),
	}
	if connected {
		style.FontSize = 11
		style.StrokeColor = connectedColor
		style.StrokeWidth = 1.5
	}
	return style
}

func emptySeries(spec *models.Spectrum) []chart.Series {
	return []chart.Series{
		chart.ContinuousSeries{
			Name:    "noise floor",
			Style:   chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
			XValues: []float64{spec.AxisMin, spec.AxisMax},
			YValues: []float64{spec.NoiseFloor, spec.NoiseFloor},
		},
		chart.AnnotationSeries{
			Name: "empty",
			Annotations: []chart.Value2{{
				XValue: (spec.AxisMin + spec.AxisMax) / 2,
				YValue: -60,
				Label:  "No Wi-Fi Found",
				Style: chart.Style{
					FontColor: labelColor,
					FontSize:  14,
					FillColor: drawing.ColorWhite,
				},
			}},
		},
	}
}
