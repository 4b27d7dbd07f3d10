// Package monitor renders sweep reports as charts: PNG line plots via
// gonum plot and interactive HTML via go-echarts.
package monitor

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/lidar-pointcount/internal/lidar/sweep"
)

// ErrNoResults is returned when a report has nothing to draw.
var ErrNoResults = errors.New("report has no results")

// Plot size for saved images.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// NewPointCountPlot builds a line plot of point count against distance with
// one line per yaw angle. Distances and angle labels use the units u.
func NewPointCountPlot(report *sweep.Report, u sweep.Units) (*plot.Plot, error) {
	if report == nil || len(report.Results) == 0 {
		return nil, ErrNoResults
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Expected lidar points - car %.2fx%.2fx%.2fm",
		report.Dimensions.Length, report.Dimensions.Width, report.Dimensions.Height)
	p.X.Label.Text = u.DistanceLabel()
	p.Y.Label.Text = "Lidar points"

	series := report.Series()
	colors := generateColors(len(series))
	for i, s := range series {
		pts := make(plotter.XYs, len(s.Distances))
		for k := range s.Distances {
			pts[k] = plotter.XY{X: u.Distance(s.Distances[k]), Y: float64(s.Points[k])}
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("angle %g: %w", s.Angle, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		scatter.Color = colors[i]
		p.Add(line, scatter)
		p.Legend.Add(u.AngleLabel(s.Angle), line, scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// WritePointCountPlot encodes the plot as an image to w. format is any
// extension gonum plot understands ("png", "svg", "pdf").
func WritePointCountPlot(w io.Writer, report *sweep.Report, u sweep.Units, format string) error {
	p, err := NewPointCountPlot(report, u)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// SavePointCountPlot writes the plot to path, creating parent directories.
// The image format follows the file extension.
func SavePointCountPlot(report *sweep.Report, u sweep.Units, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	p, err := NewPointCountPlot(report, u)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of n distinct colors.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
