// Package vehicle models a car as an oriented 3D box for point-count
// estimation.
//
// A Car is created at the origin with its length along x, width along y and
// height along z. Rotate applies a yaw about z and Move translates along +x,
// both in place. The sensor sits at the origin facing +x, so the car's
// distance is the x-coordinate of its center and its exposure is the y-span
// of its corners together with its height.
//
// Callers build a pose by rotating first and moving second; the package
// does not enforce that order.
package vehicle
