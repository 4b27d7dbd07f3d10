package sensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/lidar-pointcount/internal/lidar/vehicle"
)

// fixedTarget is a Target with a preset distance and silhouette.
type fixedTarget struct {
	distance float64
	exposure vehicle.Exposure
}

func (f fixedTarget) Distance() float64          { return f.distance }
func (f fixedTarget) Exposure() vehicle.Exposure { return f.exposure }

func referenceSensor() *LidarSensor {
	return MustNew(Config{Range: 100, VRes: 2.0, HRes: 0.2})
}

func placedCar(t *testing.T, angle, distance float64) *vehicle.Car {
	t.Helper()
	c, err := vehicle.NewCar(4.391, 1.762, 1.59)
	require.NoError(t, err)
	c.Rotate(angle)
	c.Move(distance)
	return c
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Config{Range: 100, VRes: 2, HRes: 0.2})
	require.NoError(t, err)

	cfg := s.Config()
	assert.Equal(t, DefaultVerticalView, cfg.VerticalView)
	assert.Equal(t, DefaultHorizontalView, cfg.HorizontalView)
	assert.Equal(t, 100.0, cfg.Range)

	custom := MustNew(Config{Range: 50, VRes: 1, HRes: 0.1, VerticalView: 30, HorizontalView: 120})
	assert.Equal(t, 30.0, custom.Config().VerticalView)
	assert.Equal(t, 120.0, custom.Config().HorizontalView)
}

func TestNew_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero range", Config{Range: 0, VRes: 2, HRes: 0.2}},
		{"negative range", Config{Range: -100, VRes: 2, HRes: 0.2}},
		{"zero vres", Config{Range: 100, VRes: 0, HRes: 0.2}},
		{"negative vres", Config{Range: 100, VRes: -2, HRes: 0.2}},
		{"zero hres", Config{Range: 100, VRes: 2, HRes: 0}},
		{"negative hres", Config{Range: 100, VRes: 2, HRes: -0.2}},
		{"negative vertical view", Config{Range: 100, VRes: 2, HRes: 0.2, VerticalView: -15}},
		{"negative horizontal view", Config{Range: 100, VRes: 2, HRes: 0.2, HorizontalView: -1}},
		{"nan range", Config{Range: math.NaN(), VRes: 2, HRes: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSensorParameter)

			var pErr *ParameterError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tt.cfg.VRes, pErr.VRes)
			assert.Equal(t, tt.cfg.HRes, pErr.HRes)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(Config{}) })
}

func TestEstimatePointCloud_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		distance float64
		want     int
	}{
		// v = 18.07 deg clamped to 15 -> 7; h = 19.99 deg -> 99.
		{"5m head on", 0, 5, 693},
		// v = 4.55 deg -> 2; h = 12.53 deg -> 62.
		{"20m side on", 90, 20, 124},
		{"beyond range", 0, 100.5, 0},
		{"far beyond range", 90, 1000, 0},
	}

	s := referenceSensor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := placedCar(t, tt.angle, tt.distance)
			if got := s.EstimatePointCloud(c); got != tt.want {
				t.Errorf("EstimatePointCloud(angle=%v, distance=%v) = %d, want %d", tt.angle, tt.distance, got, tt.want)
			}
		})
	}
}

func TestEstimate_Breakdown(t *testing.T) {
	s := referenceSensor()
	est := s.Estimate(placedCar(t, 0, 5))

	assert.True(t, est.InRange)
	assert.Equal(t, 5.0, est.Distance)
	assert.Equal(t, 15.0, est.VerticalAngle, "vertical angle should clamp to the view")
	assert.InDelta(t, 19.9859, est.HorizontalAngle, 1e-3)
	assert.Equal(t, 7, est.VerticalSamples)
	assert.Equal(t, 99, est.HorizontalSamples)
	assert.Equal(t, 693, est.Points)
}

func TestEstimate_RangeBoundaryInclusive(t *testing.T) {
	s := MustNew(Config{Range: 10, VRes: 2.0, HRes: 0.2})

	at := s.Estimate(placedCar(t, 0, 10))
	assert.True(t, at.InRange)
	// v = 9.09 deg -> 4; h = 10.07 deg -> 50.
	assert.Equal(t, 200, at.Points)

	past := s.Estimate(placedCar(t, 0, 10.0001))
	assert.False(t, past.InRange)
	assert.Equal(t, 0, past.Points)
}

func TestEstimate_ZeroDistance(t *testing.T) {
	s := referenceSensor()
	est := s.Estimate(fixedTarget{distance: 0, exposure: vehicle.Exposure{Width: 1.762, Height: 1.59}})

	// atan2(x, 0) is pi/2, so the target spans 180 degrees in each axis.
	assert.Equal(t, 15.0, est.VerticalAngle)
	assert.InDelta(t, 180.0, est.HorizontalAngle, 1e-9)
	assert.Equal(t, 7*900, est.Points)
	assert.False(t, math.IsNaN(est.HorizontalAngle))
}

func TestEstimate_HorizontalViewClamp(t *testing.T) {
	s := MustNew(Config{Range: 100, VRes: 2, HRes: 1, HorizontalView: 10})
	est := s.Estimate(placedCar(t, 0, 5))

	assert.Equal(t, 10.0, est.HorizontalAngle)
	assert.Equal(t, 10, est.HorizontalSamples)
	assert.Equal(t, 70, est.Points)
}

func TestEstimate_NegativeDistanceMirrorsPositive(t *testing.T) {
	s := referenceSensor()
	for _, d := range []float64{5, 20, 60} {
		front := s.EstimatePointCloud(placedCar(t, 0, d))
		behind := s.EstimatePointCloud(placedCar(t, 0, -d))
		if front != behind {
			t.Errorf("distance %v: front=%d behind=%d, want equal", d, front, behind)
		}
	}

	// |d| beyond range is excluded on either side.
	assert.Equal(t, 0, s.EstimatePointCloud(placedCar(t, 0, -150)))
}

func TestEstimatePointCloud_NonNegativeWholeNumber(t *testing.T) {
	s := referenceSensor()
	for _, angle := range []float64{0, 15, 45, 90, 135, 180, 270} {
		for d := 0.0; d <= 100; d += 2.5 {
			est := s.Estimate(placedCar(t, angle, d))
			if est.Points < 0 {
				t.Fatalf("angle=%v distance=%v: negative count %d", angle, d, est.Points)
			}
			if est.Points != est.VerticalSamples*est.HorizontalSamples {
				t.Fatalf("angle=%v distance=%v: points %d != %d*%d", angle, d, est.Points, est.VerticalSamples, est.HorizontalSamples)
			}
		}
	}
}

func TestEstimatePointCloud_FineResolutionSaturates(t *testing.T) {
	target := fixedTarget{distance: 5, exposure: vehicle.Exposure{Width: 1.762, Height: 1.59}}

	tests := []struct {
		name           string
		cfg            Config
		saturatedVert  bool
		saturatedHoriz bool
	}{
		{"vertical overflow", Config{Range: 100, VRes: 1e-300, HRes: 0.2}, true, false},
		{"product overflow", Config{Range: 100, VRes: 1e-10, HRes: 1e-10}, false, false},
		{"both overflow", Config{Range: 100, VRes: 1e-300, HRes: 1e-300}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew(tt.cfg)
			est := s.Estimate(target)
			assert.Positive(t, est.VerticalSamples)
			assert.Positive(t, est.HorizontalSamples)
			assert.Equal(t, tt.saturatedVert, est.VerticalSamples == math.MaxInt)
			assert.Equal(t, tt.saturatedHoriz, est.HorizontalSamples == math.MaxInt)
			assert.Equal(t, math.MaxInt, est.Points)
			assert.Equal(t, math.MaxInt, s.EstimatePointCloud(target))
		})
	}
}

func TestMulSaturating(t *testing.T) {
	assert.Equal(t, 0, mulSaturating(0, math.MaxInt))
	assert.Equal(t, 693, mulSaturating(7, 99))
	assert.Equal(t, math.MaxInt, mulSaturating(2, math.MaxInt/2+1))
	assert.Equal(t, math.MaxInt-1, mulSaturating(2, math.MaxInt/2))
}

func TestEstimatePointCloud_MonotonicWithDistance(t *testing.T) {
	s := referenceSensor()
	prev := math.MaxInt
	for d := 1.0; d <= 100; d++ {
		got := s.EstimatePointCloud(placedCar(t, 0, d))
		if got > prev {
			t.Fatalf("count rose from %d to %d at %vm", prev, got, d)
		}
		prev = got
	}
}
