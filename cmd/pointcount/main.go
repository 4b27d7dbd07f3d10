// Command pointcount prints the number of lidar points expected on a car
// for every combination of a distance list and a yaw-angle list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/lidar-pointcount/internal/config"
	"github.com/banshee-data/lidar-pointcount/internal/lidar"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/monitor"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/sensor"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/sweep"
	"github.com/banshee-data/lidar-pointcount/internal/version"
)

// exitUsage is returned for bad arguments, exitFailure for anything else.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options mirrors the command-line flags.
type options struct {
	length, width, height float64
	srange, vres, hres    float64
	vview, hview          float64
	distances, angles     string
	workers               int
	units, angleUnits     string

	configPath string
	csvPath    string
	jsonPath   string
	plotPath   string
	htmlPath   string
	verbose    bool
	trace      bool
	version    bool
}

func newFlagSet(stderr io.Writer, o *options) *flag.FlagSet {
	def := config.DefaultEstimateConfig()
	dims := def.GetDimensions()
	sc := def.GetSensorConfig()

	fs := flag.NewFlagSet("pointcount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.length, "length", dims.Length, "Car length in meters")
	fs.Float64Var(&o.width, "width", dims.Width, "Car width in meters")
	fs.Float64Var(&o.height, "height", dims.Height, "Car height in meters")
	fs.Float64Var(&o.srange, "range", sc.Range, "Sensor range in meters")
	fs.Float64Var(&o.vres, "vres", sc.VRes, "Vertical angular resolution in degrees")
	fs.Float64Var(&o.hres, "hres", sc.HRes, "Horizontal angular resolution in degrees")
	fs.Float64Var(&o.vview, "vview", sc.VerticalView, "Vertical field of view in degrees")
	fs.Float64Var(&o.hview, "hview", sc.HorizontalView, "Horizontal field of view in degrees")
	fs.StringVar(&o.distances, "distances", *def.Distances, "Distances in meters: comma list or min:max:step")
	fs.StringVar(&o.angles, "angles", *def.Angles, "Yaw angles in degrees: comma list or min:max:step")
	fs.IntVar(&o.workers, "workers", def.GetWorkers(), "Placements evaluated in parallel (0 = GOMAXPROCS)")
	fs.StringVar(&o.units, "units", def.GetLengthUnits(), "Distance units for the table, CSV and charts (m, ft)")
	fs.StringVar(&o.angleUnits, "angle-units", def.GetAngleUnits(), "Yaw angle units for the table, CSV and charts (deg, rad)")
	fs.StringVar(&o.configPath, "config", "", "Path to a JSON config file; explicit flags override it")
	fs.StringVar(&o.csvPath, "csv", "", "Write results as CSV to this path")
	fs.StringVar(&o.jsonPath, "json", "", "Write the full report as JSON to this path")
	fs.StringVar(&o.plotPath, "plot", "", "Write a point-count plot (png, svg or pdf by extension)")
	fs.StringVar(&o.htmlPath, "html", "", "Write an interactive HTML chart to this path")
	fs.BoolVar(&o.verbose, "v", false, "Log per-placement diagnostics to stderr")
	fs.BoolVar(&o.trace, "trace", false, "Log per-estimate angular breakdowns to stderr")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	return fs
}

// checkNonNegative reports the first numeric argument given a negative
// value, by flag name.
func checkNonNegative(o *options) error {
	numeric := []struct {
		name string
		v    float64
	}{
		{"length", o.length},
		{"width", o.width},
		{"height", o.height},
		{"range", o.srange},
		{"vres", o.vres},
		{"hres", o.hres},
		{"vview", o.vview},
		{"hview", o.hview},
		{"workers", float64(o.workers)},
	}
	for _, f := range numeric {
		if f.v < 0 {
			return fmt.Errorf("invalid argument %s: %g (must be non-negative)", f.name, f.v)
		}
	}
	return nil
}

// buildConfig starts from the config file (or defaults) and applies every
// flag set explicitly on the command line.
func buildConfig(fs *flag.FlagSet, o *options) (*config.EstimateConfig, error) {
	cfg := config.EmptyEstimateConfig()
	if o.configPath != "" {
		loaded, err := config.LoadEstimateConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "length":
			cfg.CarLength = &o.length
		case "width":
			cfg.CarWidth = &o.width
		case "height":
			cfg.CarHeight = &o.height
		case "range":
			cfg.Range = &o.srange
		case "vres":
			cfg.VRes = &o.vres
		case "hres":
			cfg.HRes = &o.hres
		case "vview":
			cfg.VerticalView = &o.vview
		case "hview":
			cfg.HorizontalView = &o.hview
		case "distances":
			cfg.Distances = &o.distances
		case "angles":
			cfg.Angles = &o.angles
		case "workers":
			cfg.Workers = &o.workers
		case "units":
			cfg.LengthUnits = &o.units
		case "angle-units":
			cfg.AngleUnits = &o.angleUnits
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(stderr, &o)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if o.version {
		fmt.Fprintf(stdout, "pointcount %s\n", version.String())
		return exitOK
	}

	if err := checkNonNegative(&o); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logs := lidar.LogWriters{Ops: stderr}
	if o.verbose {
		logs.Diag = stderr
	}
	if o.trace {
		logs.Trace = stderr
	}
	lidar.SetLogWriters(logs)
	defer lidar.SetLogWriters(lidar.LogWriters{})

	cfg, err := buildConfig(fs, &o)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	if err := estimate(ctx, cfg, &o, stdout); err != nil {
		fmt.Fprintf(stderr, "pointcount: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func estimate(ctx context.Context, cfg *config.EstimateConfig, o *options, stdout io.Writer) error {
	grid, err := cfg.GetGrid()
	if err != nil {
		return err
	}
	s, err := sensor.New(cfg.GetSensorConfig())
	if err != nil {
		return err
	}
	runner, err := sweep.NewRunner(s, cfg.GetDimensions(), cfg.GetWorkers())
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, grid)
	if err != nil {
		return err
	}

	display := cfg.GetDisplayUnits()
	if err := sweep.WriteTable(stdout, report.Results, display); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return writeOutputs(report, display, o)
}

// writeOutputs writes the optional report files; empty paths are skipped.
// The JSON report always carries meters and degrees.
func writeOutputs(report *sweep.Report, display sweep.Units, o *options) error {
	if p := o.csvPath; p != "" {
		if err := writeFile(p, func(w io.Writer) error {
			return sweep.NewCSVWriter(w, display).WriteResults(report.Results)
		}); err != nil {
			return err
		}
	}
	if p := o.jsonPath; p != "" {
		if err := writeFile(p, func(w io.Writer) error { return sweep.WriteJSON(w, report) }); err != nil {
			return err
		}
	}
	if p := o.plotPath; p != "" {
		if err := monitor.SavePointCountPlot(report, display, p); err != nil {
			return err
		}
		lidar.Opsf("wrote plot %s", p)
	}
	if p := o.htmlPath; p != "" {
		if err := writeFile(p, func(w io.Writer) error { return monitor.RenderPointCountChart(w, report, display) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	lidar.Opsf("wrote %s", path)
	return nil
}
