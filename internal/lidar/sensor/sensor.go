// Package sensor estimates the number of lidar returns expected on a target
// from its distance and silhouette.
//
// The estimate is the angular size of the target in each axis, clamped to
// the sensor's field of view and quantized by the angular resolution. It
// does not trace rays, model occlusion or add noise.
package sensor

import (
	"math"

	"github.com/banshee-data/lidar-pointcount/internal/lidar"
	"github.com/banshee-data/lidar-pointcount/internal/lidar/vehicle"
	"github.com/banshee-data/lidar-pointcount/internal/units"
)

// Default fields of view, in degrees.
const (
	DefaultVerticalView   = 15.0
	DefaultHorizontalView = 360.0
)

// Target is the read-only view of a vehicle the sensor needs.
type Target interface {
	Distance() float64
	Exposure() vehicle.Exposure
}

// Config describes a lidar sensor. Angles are in degrees and Range in
// meters. A zero VerticalView or HorizontalView selects the default.
type Config struct {
	Range          float64 `json:"range"`
	VRes           float64 `json:"vres"`
	HRes           float64 `json:"hres"`
	VerticalView   float64 `json:"vertical_view,omitempty"`
	HorizontalView float64 `json:"horizontal_view,omitempty"`
}

// LidarSensor is an immutable sensor model. It is safe for concurrent use.
type LidarSensor struct {
	cfg Config
}

// New validates cfg, applies the field-of-view defaults and returns the
// sensor. Range, VRes and HRes must be strictly positive; views must not be
// negative.
func New(cfg Config) (*LidarSensor, error) {
	if cfg.VerticalView == 0 {
		cfg.VerticalView = DefaultVerticalView
	}
	if cfg.HorizontalView == 0 {
		cfg.HorizontalView = DefaultHorizontalView
	}
	if !(cfg.Range > 0) || !(cfg.VRes > 0) || !(cfg.HRes > 0) ||
		!(cfg.VerticalView > 0) || !(cfg.HorizontalView > 0) {
		return nil, &ParameterError{
			Range:          cfg.Range,
			VRes:           cfg.VRes,
			HRes:           cfg.HRes,
			VerticalView:   cfg.VerticalView,
			HorizontalView: cfg.HorizontalView,
		}
	}
	return &LidarSensor{cfg: cfg}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg Config) *LidarSensor {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Config returns the effective configuration, defaults included.
func (s *LidarSensor) Config() Config {
	return s.cfg
}

// Estimate is the breakdown behind a point count.
type Estimate struct {
	Distance          float64 `json:"distance"`
	InRange           bool    `json:"in_range"`
	VerticalAngle     float64 `json:"vertical_angle_deg"`   // clamped to VerticalView
	HorizontalAngle   float64 `json:"horizontal_angle_deg"` // clamped to HorizontalView
	VerticalSamples   int     `json:"vertical_samples"`
	HorizontalSamples int     `json:"horizontal_samples"`
	Points            int     `json:"points"`
}

// subtense returns the angle in degrees spanned by size at distance d.
// atan2 keeps d == 0 finite: the target then spans the full 180 degrees.
func subtense(size, d float64) float64 {
	return units.RadToDeg(2 * math.Atan2(size, 2*d))
}

// samples returns floor(angle/res), saturating at math.MaxInt for
// resolutions too fine for the count to fit in an int.
func samples(angle, res float64) int {
	n := math.Floor(angle / res)
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// mulSaturating multiplies two non-negative counts, saturating at math.MaxInt.
func mulSaturating(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

// Estimate computes the expected returns on t. A target further than Range
// yields an empty estimate; a target exactly at Range is still sensed.
// Distance is taken as an absolute value, so a target behind the sensor is
// treated like one the same distance in front.
func (s *LidarSensor) Estimate(t Target) Estimate {
	d := math.Abs(t.Distance())
	est := Estimate{Distance: t.Distance()}
	if d > s.cfg.Range {
		lidar.Tracef("target at %.3fm beyond range %.3fm", d, s.cfg.Range)
		return est
	}
	est.InRange = true

	exp := t.Exposure()
	est.VerticalAngle = math.Min(subtense(exp.Height, d), s.cfg.VerticalView)
	est.HorizontalAngle = math.Min(subtense(exp.Width, d), s.cfg.HorizontalView)

	// Each axis is floored on its own: the scan is a discrete grid.
	est.VerticalSamples = samples(est.VerticalAngle, s.cfg.VRes)
	est.HorizontalSamples = samples(est.HorizontalAngle, s.cfg.HRes)
	est.Points = mulSaturating(est.VerticalSamples, est.HorizontalSamples)

	lidar.Tracef("target at %.3fm: v=%.3fdeg (%d) h=%.3fdeg (%d) points=%d",
		d, est.VerticalAngle, est.VerticalSamples, est.HorizontalAngle, est.HorizontalSamples, est.Points)
	return est
}

// EstimatePointCloud returns the number of lidar points expected on t.
func (s *LidarSensor) EstimatePointCloud(t Target) int {
	return s.Estimate(t).Points
}
