package glider

import "math"

// State coordinates.
const (
	X = iota
	Y
	V
	Theta

	Dim
)

// DefaultDrag is the drag to lift coefficient of the reference wing.
const DefaultDrag = 0.146130592503022988

type Model struct {
	Drag float64
}

func NewModel(drag float64) Model {
	return Model{Drag: drag}
}

// Derivative is the equation of motion:
//
//	ẋ = v cosθ
//	ẏ = v sinθ
//	v̇ = -k v² - sinθ
//	θ̇ = v - cosθ/v
func (m Model) Derivative(_ float64, x, dx []float64) {
	s, c := math.Sincos(x[Theta])
	v := x[V]
	dx[X] = v * c
	dx[Y] = v * s
	dx[V] = -v*v*m.Drag - s
	dx[Theta] = v - c/v
}

// Start builds an initial state from altitude, speed and angle.
func Start(y, v, theta float64) []float64 {
	return []float64{0, y, v, theta}
}
