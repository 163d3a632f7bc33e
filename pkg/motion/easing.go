package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Easing maps linear progress t in [0, 1] to eased progress.
// Values outside [0, 1] are allowed for overshooting curves.
type Easing interface {
	Ease(t float64) float64
}

// EasingFunc adapts a plain function to Easing.
type EasingFunc func(float64) float64

// Ease implements Easing.
func (f EasingFunc) Ease(t float64) float64 { return f(t) }

// Linear is the identity easing.
var Linear Easing = EasingFunc(func(t float64) float64 { return t })

// CubicBezier is a CSS-style timing curve through (0,0), (X1,Y1), (X2,Y2), (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// Overshoot slightly passes the target before settling, giving reordered items a springy landing.
var Overshoot = CubicBezier{X1: 0.34, Y1: 1.10, X2: 0.64, Y2: 1}

const (
	newtonIterations = 8
	bisectIterations = 32
	solveEpsilon     = 1e-7
)

// Ease implements Easing.
func (c CubicBezier) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return bezier(c.solveX(t), c.Y1, c.Y2)
}

// solveX finds the curve parameter whose x coordinate is x.
func (c CubicBezier) solveX(x float64) float64 {
	// Newton first, it converges in a few steps for well-behaved curves.
	u := x
	for i := 0; i < newtonIterations; i++ {
		dx := bezier(u, c.X1, c.X2) - x
		if math.Abs(dx) < solveEpsilon {
			return u
		}
		d := bezierSlope(u, c.X1, c.X2)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= dx / d
	}

	// Fall back to bisection; x(u) is monotonic because X1 and X2 are within [0, 1].
	lo, hi := 0.0, 1.0
	u = x
	for i := 0; i < bisectIterations; i++ {
		v := bezier(u, c.X1, c.X2)
		if math.Abs(v-x) < solveEpsilon {
			break
		}
		if v < x {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// bezier evaluates one coordinate of the curve with fixed endpoints 0 and 1.
func bezier(u, p1, p2 float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u
}

func bezierSlope(u, p1, p2 float64) float64 {
	inv := 1 - u
	return 3*inv*inv*p1 + 6*inv*u*(p2-p1) + 3*u*u*(1-p2)
}

// String renders the curve in CSS notation.
func (c CubicBezier) String() string {
	return fmt.Sprintf("cubic-bezier(%s, %s, %s, %s)",
		formatFloat(c.X1), formatFloat(c.Y1), formatFloat(c.X2), formatFloat(c.Y2))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseEasing accepts "linear" or CSS cubic-bezier notation.
func ParseEasing(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "overshoot" {
		return Overshoot, nil
	}
	if s == "linear" {
		return Linear, nil
	}
	return ParseCubicBezier(s)
}

// ParseCubicBezier parses "cubic-bezier(x1, y1, x2, y2)".
func ParseCubicBezier(s string) (CubicBezier, error) {
	s = strings.TrimSpace(s)
	inner, ok := strings.CutPrefix(s, "cubic-bezier(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return CubicBezier{}, fmt.Errorf("invalid easing %q: want cubic-bezier(x1, y1, x2, y2)", s)
	}
	parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
	if len(parts) != 4 {
		return CubicBezier{}, fmt.Errorf("invalid easing %q: want 4 control values, got %d", s, len(parts))
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return CubicBezier{}, fmt.Errorf("invalid easing %q: %w", s, err)
		}
		v[i] = f
	}
	c := CubicBezier{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	if c.X1 < 0 || c.X1 > 1 || c.X2 < 0 || c.X2 > 1 {
		return CubicBezier{}, fmt.Errorf("invalid easing %q: x control points must be within [0, 1]", s)
	}
	return c, nil
}
