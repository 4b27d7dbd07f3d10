// Package config loads the estimator configuration: vehicle dimensions,
// sensor parameters and the distance/angle grid to evaluate.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/lidar-pointcount/internal/lidar/sensor"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/sweep"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/vehicle"
	"github.com/banshee-data/lidar-pointcount/internal/units"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/estimate.defaults.json"

// EstimateConfig is the root configuration. Every field is optional; the
// Get* methods fall back to the defaults for anything left out.
type EstimateConfig struct {
	// Vehicle box, meters
	CarLength *float64 `json:"car_length,omitempty"`
	CarWidth  *float64 `json:"car_width,omitempty"`
	CarHeight *float64 `json:"car_height,omitempty"`

	// Sensor, meters and degrees
	Range          *float64 `json:"range,omitempty"`
	VRes           *float64 `json:"vres,omitempty"`
	HRes           *float64 `json:"hres,omitempty"`
	VerticalView   *float64 `json:"vertical_view,omitempty"`
	HorizontalView *float64 `json:"horizontal_view,omitempty"`

	// Grid: comma list ("5,10,15") or range spec ("5:20:5")
	Distances *string `json:"distances,omitempty"`
	Angles    *string `json:"angles,omitempty"`
	Workers   *int    `json:"workers,omitempty"`

	// Display
	LengthUnits *string `json:"length_units,omitempty"`
	AngleUnits  *string `json:"angle_units,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyEstimateConfig returns an EstimateConfig with all fields nil.
func EmptyEstimateConfig() *EstimateConfig {
	return &EstimateConfig{}
}

// DefaultEstimateConfig returns a config with every field populated with the
// built-in defaults.
func DefaultEstimateConfig() *EstimateConfig {
	return &EstimateConfig{
		CarLength:      ptrFloat64(defaultCarLength),
		CarWidth:       ptrFloat64(defaultCarWidth),
		CarHeight:      ptrFloat64(defaultCarHeight),
		Range:          ptrFloat64(defaultRange),
		VRes:           ptrFloat64(defaultVRes),
		HRes:           ptrFloat64(defaultHRes),
		VerticalView:   ptrFloat64(sensor.DefaultVerticalView),
		HorizontalView: ptrFloat64(sensor.DefaultHorizontalView),
		Distances:      ptrString(defaultDistances),
		Angles:         ptrString(defaultAngles),
		Workers:        ptrInt(defaultWorkers),
		LengthUnits:    ptrString(units.Meters),
		AngleUnits:     ptrString(units.Degrees),
	}
}

const (
	defaultCarLength = 3.75
	defaultCarWidth  = 1.2
	defaultCarHeight = 1.75
	defaultRange     = 100.0
	defaultVRes      = 2.0
	defaultHRes      = 0.2
	defaultDistances = "5,10,15,20"
	defaultAngles    = "0,45,90"
	defaultWorkers   = 4
)

// LoadEstimateConfig loads an EstimateConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file stay nil and read back as defaults.
func LoadEstimateConfig(path string) (*EstimateConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyEstimateConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *EstimateConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/lidar/sweep/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadEstimateConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable. Zero dimensions
// and resolutions pass here and are rejected when the car or sensor is
// built; negative values are rejected outright.
func (c *EstimateConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"car_length", c.CarLength},
		{"car_width", c.CarWidth},
		{"car_height", c.CarHeight},
		{"range", c.Range},
		{"vres", c.VRes},
		{"hres", c.HRes},
		{"vertical_view", c.VerticalView},
		{"horizontal_view", c.HorizontalView},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", f.name, *f.v)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.Distances != nil {
		if _, err := sweep.ParseParamList(*c.Distances); err != nil {
			return fmt.Errorf("invalid distances %q: %w", *c.Distances, err)
		}
	}
	if c.Angles != nil {
		if _, err := sweep.ParseParamList(*c.Angles); err != nil {
			return fmt.Errorf("invalid angles %q: %w", *c.Angles, err)
		}
	}

	if c.LengthUnits != nil && !units.IsValidLength(*c.LengthUnits) {
		return fmt.Errorf("length_units must be one of %s, got %q", units.GetValidLengthUnitsString(), *c.LengthUnits)
	}
	if c.AngleUnits != nil && !units.IsValidAngle(*c.AngleUnits) {
		return fmt.Errorf("angle_units must be one of %s, got %q", units.GetValidAngleUnitsString(), *c.AngleUnits)
	}

	return nil
}

func getFloat64(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// GetDimensions returns the configured vehicle box.
func (c *EstimateConfig) GetDimensions() vehicle.Dimensions {
	return vehicle.Dimensions{
		Length: getFloat64(c.CarLength, defaultCarLength),
		Width:  getFloat64(c.CarWidth, defaultCarWidth),
		Height: getFloat64(c.CarHeight, defaultCarHeight),
	}
}

// GetSensorConfig returns the configured sensor parameters.
func (c *EstimateConfig) GetSensorConfig() sensor.Config {
	return sensor.Config{
		Range:          getFloat64(c.Range, defaultRange),
		VRes:           getFloat64(c.VRes, defaultVRes),
		HRes:           getFloat64(c.HRes, defaultHRes),
		VerticalView:   getFloat64(c.VerticalView, sensor.DefaultVerticalView),
		HorizontalView: getFloat64(c.HorizontalView, sensor.DefaultHorizontalView),
	}
}

// GetGrid parses the distance and angle lists into a sweep grid.
func (c *EstimateConfig) GetGrid() (sweep.Grid, error) {
	distSpec := defaultDistances
	if c.Distances != nil {
		distSpec = *c.Distances
	}
	angleSpec := defaultAngles
	if c.Angles != nil {
		angleSpec = *c.Angles
	}

	distances, err := sweep.ParseParamList(distSpec)
	if err != nil {
		return sweep.Grid{}, fmt.Errorf("invalid distances %q: %w", distSpec, err)
	}
	angles, err := sweep.ParseParamList(angleSpec)
	if err != nil {
		return sweep.Grid{}, fmt.Errorf("invalid angles %q: %w", angleSpec, err)
	}
	return sweep.Grid{Distances: distances, Angles: angles}, nil
}

// GetWorkers returns the workers value or the default.
func (c *EstimateConfig) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

// GetLengthUnits returns the display length units or the default.
func (c *EstimateConfig) GetLengthUnits() string {
	if c.LengthUnits == nil || *c.LengthUnits == "" {
		return units.Meters
	}
	return *c.LengthUnits
}

// GetAngleUnits returns the display angle units or the default.
func (c *EstimateConfig) GetAngleUnits() string {
	if c.AngleUnits == nil || *c.AngleUnits == "" {
		return units.Degrees
	}
	return *c.AngleUnits
}

// GetDisplayUnits returns the units used for tables, CSV and charts.
func (c *EstimateConfig) GetDisplayUnits() sweep.Units {
	return sweep.Units{Length: c.GetLengthUnits(), Angle: c.GetAngleUnits()}
}
