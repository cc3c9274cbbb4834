package glider

import (
	"fmt"
	"math"
	"strings"
)

// Pattern selects which flight shapes end a trajectory early.
type Pattern int

const (
	// Unconstrained only stops on the ground, the x floor or the point limit.
	Unconstrained Pattern = iota
	// NoLoop stops once the glider points straight up or down.
	NoLoop
	// NoStall stops once the climb angle reaches 60 degrees.
	NoStall
)

const (
	DefaultXFloor    = -16.0
	DefaultMaxPoints = 16_000_000

	loopAngle  = math.Pi / 2
	stallAngle = math.Pi / 3
)

var patternNames = map[Pattern]string{
	Unconstrained: "unconstrained",
	NoLoop:        "no-loop",
	NoStall:       "no-stall",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// ParsePattern accepts the names printed by String.
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range patternNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("glider: unknown pattern %q", s)
}

func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pattern) UnmarshalText(b []byte) error {
	v, err := ParsePattern(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Stop is the termination test applied after every step batch.
type Stop struct {
	Pattern   Pattern
	XFloor    float64
	MaxPoints uint64
}

func DefaultStop() Stop {
	return Stop{
		Pattern:   NoStall,
		XFloor:    DefaultXFloor,
		MaxPoints: DefaultMaxPoints,
	}
}

// Done reports whether a trajectory whose last sample is p and which holds
// count samples is finished. A sample that left the reals always finishes.
func (s Stop) Done(p []float64, count uint64) bool {
	if !Finite(p) {
		return true
	}
	if p[Y] < 0 || p[X] < s.XFloor || count >= s.MaxPoints {
		return true
	}
	switch s.Pattern {
	case NoLoop:
		return math.Abs(p[Theta]) >= loopAngle
	case NoStall:
		return p[Theta] >= stallAngle
	}
	return false
}

// Finite reports whether every coordinate of p is a real number.
func Finite(p []float64) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
