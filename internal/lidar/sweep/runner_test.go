package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/lidar-pointcount/internal/lidar/sensor"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/vehicle"
)

var demoDims = vehicle.Dimensions{Length: 3.75, Width: 1.2, Height: 1.75}

func demoRunner(t *testing.T, workers int) *Runner {
	t.Helper()
	s := sensor.MustNew(sensor.Config{Range: 100, VRes: 2, HRes: 0.2})
	r, err := NewRunner(s, demoDims, workers)
	require.NoError(t, err)
	return r
}

func TestRunner_DemoGrid(t *testing.T) {
	grid := Grid{Distances: []float64{5, 10, 15, 20}, Angles: []float64{0, 45, 90}}
	report, err := demoRunner(t, 3).Run(context.Background(), grid)
	require.NoError(t, err)

	want := []int{
		476, 1344, 1435, // 5m
		170, 495, 530,   // 10m
		66, 198, 213,    // 15m
		34, 100, 106,    // 20m
	}
	require.Len(t, report.Results, len(want))
	for i, r := range report.Results {
		wantDist := grid.Distances[i/3]
		wantAngle := grid.Angles[i%3]
		assert.Equal(t, wantDist, r.Distance, "result %d distance", i)
		assert.Equal(t, wantAngle, r.Angle, "result %d angle", i)
		assert.Equal(t, want[i], r.Points, "distance=%v angle=%v", r.Distance, r.Angle)
		assert.Equal(t, r.Points, r.Estimate.Points)
	}

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err, "run id should be a uuid")
	assert.Equal(t, demoDims, report.Dimensions)
	assert.Equal(t, 360.0, report.Sensor.HorizontalView)
	assert.False(t, report.StartedAt.IsZero())
}

func TestRunner_WorkerCountDoesNotChangeResults(t *testing.T) {
	grid := Grid{
		Distances: GenerateRange(1, 120, 7),
		Angles:    GenerateRange(0, 180, 15),
	}
	serial, err := demoRunner(t, 1).Run(context.Background(), grid)
	require.NoError(t, err)

	for _, workers := range []int{0, 2, 16} {
		parallel, err := demoRunner(t, workers).Run(context.Background(), grid)
		require.NoError(t, err)
		assert.Equal(t, serial.Results, parallel.Results, "workers=%d", workers)
	}
}

func TestRunner_BeyondRangeIsZero(t *testing.T) {
	grid := Grid{Distances: []float64{100.5, 150}, Angles: []float64{0, 90}}
	report, err := demoRunner(t, 2).Run(context.Background(), grid)
	require.NoError(t, err)
	for _, r := range report.Results {
		assert.Zero(t, r.Points)
		assert.False(t, r.Estimate.InRange)
	}
}

func TestRunner_EmptyGrid(t *testing.T) {
	r := demoRunner(t, 1)
	_, err := r.Run(context.Background(), Grid{Distances: []float64{5}})
	assert.ErrorIs(t, err, ErrEmptyGrid)
	_, err = r.Run(context.Background(), Grid{})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := Grid{Distances: []float64{5, 10}, Angles: []float64{0}}
	report, err := demoRunner(t, 1).Run(ctx, grid)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNewRunner_Invalid(t *testing.T) {
	s := sensor.MustNew(sensor.Config{Range: 100, VRes: 2, HRes: 0.2})

	_, err := NewRunner(s, vehicle.Dimensions{Length: 4, Width: 0, Height: 1}, 1)
	assert.ErrorIs(t, err, vehicle.ErrInvalidDimension)

	_, err = NewRunner(nil, demoDims, 1)
	assert.Error(t, err)
}

func TestReport_Series(t *testing.T) {
	grid := Grid{Distances: []float64{5, 10, 15, 20}, Angles: []float64{0, 45, 90}}
	report, err := demoRunner(t, 4).Run(context.Background(), grid)
	require.NoError(t, err)

	series := report.Series()
	require.Len(t, series, 3)

	assert.Equal(t, 90.0, series[2].Angle)
	assert.Equal(t, []float64{5, 10, 15, 20}, series[2].Distances)
	assert.Equal(t, []int{1435, 530, 213, 106}, series[2].Points)
	assert.Equal(t, []int{476, 170, 66, 34}, series[0].Points)
}
