package blender

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// Curve maps linear progress t in [0,1) to eased progress. Every curve
// offered here is strictly increasing with curve(t) < 1 for t < 1.
type Curve func(t float64) float64

var curves = map[string]Curve{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
}

// ParseCurve looks up a curve by name.
func ParseCurve(name string) (Curve, error) {
	if name == "" {
		return ease.Linear, nil
	}
	c, ok := curves[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(CurveNames(), ", "))
	}
	return c, nil
}

func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Weights returns the predecessor weight alpha and successor weight beta
// for step k of a transition with the given number of steps. With the
// linear curve alpha = 1 - k/steps.
func Weights(k, steps int, curve Curve) (alpha, beta float64) {
	t := float64(k) / float64(steps)
	if curve != nil {
		t = curve(t)
	}
	alpha = 1.0 - t
	beta = 1.0 - alpha
	return alpha, beta
}
