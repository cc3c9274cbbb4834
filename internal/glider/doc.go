// Package glider defines the longitudinal glide model that the sweep
// optimises.
//
// The state is [x, y, v, θ]: horizontal position, altitude, airspeed and
// flight-path angle, in units scaled so that gravity is 1. The lift to drag
// relation is folded into a single drag coefficient.
package glider
