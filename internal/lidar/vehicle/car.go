package vehicle

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/lidar-pointcount/internal/units"
)

// cornerSigns is the fixed corner enumeration c1..c8, as multiples of the
// half extents. The top face comes first, then the bottom face.
var cornerSigns = [8]r3.Vec{
	{X: 1, Y: 1, Z: 1},    // c1
	{X: 1, Y: -1, Z: 1},   // c2
	{X: -1, Y: -1, Z: 1},  // c3
	{X: -1, Y: 1, Z: 1},   // c4
	{X: 1, Y: 1, Z: -1},   // c5
	{X: 1, Y: -1, Z: -1},  // c6
	{X: -1, Y: -1, Z: -1}, // c7
	{X: -1, Y: 1, Z: -1},  // c8
}

// Dimensions are the box extents of a car in meters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Exposure is the rectangular silhouette of a car as seen from the sensor.
type Exposure struct {
	Width  float64 // span of the corner y-coordinates
	Height float64 // box height, unchanged by yaw
}

// Car is a box-shaped vehicle. The corners are kept in lockstep with the
// center through every Rotate and Move.
type Car struct {
	dims    Dimensions
	center  r3.Vec
	corners [8]r3.Vec
}

// NewCar returns a car centered on the origin with axis-aligned corners.
// All three dimensions must be strictly positive.
func NewCar(length, width, height float64) (*Car, error) {
	// Written as !(x > 0) so NaN is rejected too.
	if !(length > 0) || !(width > 0) || !(height > 0) {
		return nil, &DimensionError{Length: length, Width: width, Height: height}
	}
	c := &Car{dims: Dimensions{Length: length, Width: width, Height: height}}
	c.corners = c.boxCorners()
	return c, nil
}

// NewCarFromDimensions is NewCar taking a Dimensions value.
func NewCarFromDimensions(d Dimensions) (*Car, error) {
	return NewCar(d.Length, d.Width, d.Height)
}

// boxCorners computes the eight corners from the center and the half
// extents along the world axes.
func (c *Car) boxCorners() [8]r3.Vec {
	half := r3.Vec{X: c.dims.Length / 2, Y: c.dims.Width / 2, Z: c.dims.Height / 2}
	var corners [8]r3.Vec
	for i, s := range cornerSigns {
		offset := r3.Vec{X: s.X * half.X, Y: s.Y * half.Y, Z: s.Z * half.Z}
		corners[i] = r3.Add(c.center, offset)
	}
	return corners
}

// yawMatrix returns the rotation about z by rad radians:
//
//	| cos  -sin  0 |
//	| sin   cos  0 |
//	|  0     0   1 |
func yawMatrix(rad float64) *mat.Dense {
	sin, cos := math.Sincos(rad)
	return mat.NewDense(3, 3, []float64{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	})
}

// apply returns R·p with p treated as a column vector.
func apply(r mat.Matrix, p r3.Vec) r3.Vec {
	var out mat.VecDense
	out.MulVec(r, mat.NewVecDense(3, []float64{p.X, p.Y, p.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Rotate turns the car about the z axis through the origin by angleDeg
// degrees, counter-clockwise seen from +z. The center and every corner are
// updated in place. Successive calls compose.
func (c *Car) Rotate(angleDeg float64) {
	r := yawMatrix(units.DegToRad(angleDeg))
	for i := range c.corners {
		c.corners[i] = apply(r, c.corners[i])
	}
	c.center = apply(r, c.center)
}

// Move translates the car by distance along +x. Negative values move it
// towards and past the sensor.
func (c *Car) Move(distance float64) {
	t := r3.Vec{X: distance}
	for i := range c.corners {
		c.corners[i] = r3.Add(c.corners[i], t)
	}
	c.center = r3.Add(c.center, t)
}

// Place rotates by angleDeg and then moves by distance, the order in which
// a pose is expected to be built.
func (c *Car) Place(angleDeg, distance float64) {
	c.Rotate(angleDeg)
	c.Move(distance)
}

// Distance returns the distance from the sensor, the x-coordinate of the
// center.
func (c *Car) Distance() float64 {
	return c.center.X
}

// Exposure returns the silhouette seen by a sensor on the x axis.
func (c *Car) Exposure() Exposure {
	ys := make([]float64, len(c.corners))
	for i, p := range c.corners {
		ys[i] = p.Y
	}
	return Exposure{
		Width:  math.Abs(floats.Max(ys) - floats.Min(ys)),
		Height: c.dims.Height,
	}
}

// Center returns the current center of the box.
func (c *Car) Center() r3.Vec {
	return c.center
}

// Corners returns a copy of the corners in c1..c8 order.
func (c *Car) Corners() [8]r3.Vec {
	return c.corners
}

// Dimensions returns the box extents the car was built with.
func (c *Car) Dimensions() Dimensions {
	return c.dims
}

// Clone returns an independent copy of the car in its current pose.
func (c *Car) Clone() *Car {
	cp := *c
	return &cp
}
