package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/lidar-pointcount/internal/lidar/sweep"
)

// NewPointCountChart builds an interactive line chart of point count
// against distance, one series per yaw angle, in the display units u.
func NewPointCountChart(report *sweep.Report, u sweep.Units) (*charts.Line, error) {
	if report == nil || len(report.Results) == 0 {
		return nil, ErrNoResults
	}

	x := make([]string, len(report.Grid.Distances))
	for i, d := range report.Grid.Distances {
		x[i] = u.FormatDistance(d)
	}

	s := report.Sensor
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lidar point count", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Expected lidar points",
			Subtitle: fmt.Sprintf("car %gx%gx%gm | range=%gm vres=%g° hres=%g° | run %s",
				report.Dimensions.Length, report.Dimensions.Width, report.Dimensions.Height,
				s.Range, s.VRes, s.HRes, report.RunID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: u.DistanceLabel(), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lidar points"}),
	)

	line.SetXAxis(x)
	for _, series := range report.Series() {
		data := make([]opts.LineData, len(series.Points))
		for i, p := range series.Points {
			data[i] = opts.LineData{Value: p}
		}
		line.AddSeries(u.AngleLabel(series.Angle), data)
	}
	return line, nil
}

// RenderPointCountChart writes the chart as a standalone HTML page to w.
func RenderPointCountChart(w io.Writer, report *sweep.Report, u sweep.Units) error {
	line, err := NewPointCountChart(report, u)
	if err != nil {
		return err
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
