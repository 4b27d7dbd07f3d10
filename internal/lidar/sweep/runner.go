package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/lidar-pointcount/internal/lidar"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/sensor"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/vehicle"
	"github.com/banshee-data/lidar-pointcount/internal/version"
)

// ErrEmptyGrid is returned by Run when the grid has no distances or no angles.
var ErrEmptyGrid = errors.New("sweep grid is empty")

// Grid is the set of placements to evaluate: every distance paired with
// every angle.
type Grid struct {
	Distances []float64 `json:"distances"` // meters along +x
	Angles    []float64 `json:"angles"`    // yaw, degrees
}

// Size returns the number of placements in the grid.
func (g Grid) Size() int {
	return len(g.Distances) * len(g.Angles)
}

// Result is the estimate for one placement.
type Result struct {
	Distance float64         `json:"distance"`
	Angle    float64         `json:"angle"`
	Points   int             `json:"points"`
	Estimate sensor.Estimate `json:"estimate"`
}

// Report is the outcome of one Run. Results are ordered by distance, then
// angle, following the order of the grid.
type Report struct {
	RunID      string             `json:"run_id"`
	Version    string             `json:"version"`
	Dimensions vehicle.Dimensions `json:"dimensions"`
	Sensor     sensor.Config      `json:"sensor"`
	Grid       Grid               `json:"grid"`
	Results    []Result           `json:"results"`
	StartedAt  time.Time          `json:"started_at"`
	Duration   time.Duration      `json:"duration_ns"`
}

// Series is the point count against distance for one angle.
type Series struct {
	Angle     float64
	Distances []float64
	Points    []int
}

// Series splits the results into one series per grid angle, in grid order.
func (r *Report) Series() []Series {
	nA := len(r.Grid.Angles)
	out := make([]Series, nA)
	for j, a := range r.Grid.Angles {
		s := Series{
			Angle:     a,
			Distances: make([]float64, 0, len(r.Grid.Distances)),
			Points:    make([]int, 0, len(r.Grid.Distances)),
		}
		for i := range r.Grid.Distances {
			res := r.Results[i*nA+j]
			s.Distances = append(s.Distances, res.Distance)
			s.Points = append(s.Points, res.Points)
		}
		out[j] = s
	}
	return out
}

// Runner evaluates a grid against one sensor and one vehicle shape.
type Runner struct {
	Sensor     *sensor.LidarSensor
	Dimensions vehicle.Dimensions
	// Workers bounds the number of placements evaluated at once.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

// NewRunner checks the vehicle dimensions up front so that a bad shape
// fails before any work is scheduled.
func NewRunner(s *sensor.LidarSensor, dims vehicle.Dimensions, workers int) (*Runner, error) {
	if s == nil {
		return nil, errors.New("sweep runner requires a sensor")
	}
	if _, err := vehicle.NewCarFromDimensions(dims); err != nil {
		return nil, err
	}
	return &Runner{Sensor: s, Dimensions: dims, Workers: workers}, nil
}

// Run places a fresh car at every grid point (rotate, then move) and
// estimates its point count. Placements are independent and are evaluated
// in parallel; the sensor is read-only and each car is owned by one
// goroutine. Run stops scheduling once ctx is done and returns its error.
func (r *Runner) Run(ctx context.Context, grid Grid) (*Report, error) {
	if grid.Size() == 0 {
		return nil, ErrEmptyGrid
	}

	report := &Report{
		RunID:      uuid.New().String(),
		Version:    version.Version,
		Dimensions: r.Dimensions,
		Sensor:     r.Sensor.Config(),
		Grid:       grid,
		Results:    make([]Result, grid.Size()),
		StartedAt:  time.Now(),
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	lidar.Opsf("sweep %s: %d distances x %d angles, %d workers",
		report.RunID, len(grid.Distances), len(grid.Angles), workers)
	lidar.Diagf("sweep %s: distances=[%s] angles=[%s]",
		report.RunID, FormatFloats(grid.Distances), FormatFloats(grid.Angles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	nA := len(grid.Angles)
	scheduled := 0
schedule:
	for i, d := range grid.Distances {
		for j, a := range grid.Angles {
			if gctx.Err() != nil {
				break schedule
			}
			idx := i*nA + j
			scheduled++
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := r.evaluate(d, a)
				if err != nil {
					return err
				}
				report.Results[idx] = res
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		lidar.Opsf("sweep %s failed: %v", report.RunID, err)
		return nil, fmt.Errorf("sweep %s: %w", report.RunID, err)
	}
	// Scheduling stopped early on a cancelled parent without any
	// goroutine reporting it.
	if scheduled < grid.Size() {
		return nil, fmt.Errorf("sweep %s: %w", report.RunID, ctx.Err())
	}

	report.Duration = time.Since(report.StartedAt)
	lidar.Opsf("sweep %s finished in %s", report.RunID, report.Duration)
	return report, nil
}

func (r *Runner) evaluate(distance, angle float64) (Result, error) {
	car, err := vehicle.NewCarFromDimensions(r.Dimensions)
	if err != nil {
		return Result{}, err
	}
	car.Place(angle, distance)
	est := r.Sensor.Estimate(car)
	lidar.Diagf("distance=%g angle=%g exposure=%+v points=%d", distance, angle, car.Exposure(), est.Points)
	return Result{
		Distance: distance,
		Angle:    angle,
		Points:   est.Points,
		Estimate: est,
	}, nil
}
