package blender

import (
	"fmt"
	"sort"
	"strings"
)

// Transition is the span from keyframe From to its cyclic successor To.
type Transition struct {
	Index        int
	From, To     int
	FromID, ToID string
	Intermediate int
	Overridden   bool
}

// Steps is the number of frames the transition emits, counting the
// starting keyframe itself.
func (t Transition) Steps() int {
	return t.Intermediate + 1
}

// Plan is the ordered list of transitions of one keyframe cycle.
type Plan struct {
	Transitions []Transition
}

// NewPlan resolves per-transition counts. overrides is keyed by the id of
// the transition's starting keyframe, so reordering the cycle keeps an
// override attached to the same keyframe.
func NewPlan(ids []string, defaultCount int, overrides map[string]int) (*Plan, error) {
	n := len(ids)
	if n < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewKeyframes, n)
	}
	if defaultCount < 0 {
		return nil, fmt.Errorf("%w: default %d", ErrNegativeCount, defaultCount)
	}

	// A cycle may revisit a keyframe; only an override naming such a
	// repeated id is ambiguous.
	positions := make(map[string][]int, n)
	for i, id := range ids {
		positions[id] = append(positions[id], i+1)
	}

	for id, count := range overrides {
		pos, ok := positions[id]
		if !ok {
			known := make([]string, 0, len(positions))
			for k := range positions {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("%w: %q (known ids: %s)", ErrUnknownOverride, id, strings.Join(known, ", "))
		}
		if len(pos) > 1 {
			return nil, fmt.Errorf("%w %q in override, it appears at positions %v; give each occurrence its own id", ErrDuplicateID, id, pos)
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: override %q is %d", ErrNegativeCount, id, count)
		}
	}

	plan := &Plan{Transitions: make([]Transition, n)}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		t := Transition{
			Index:        i,
			From:         i,
			To:           next,
			FromID:       ids[i],
			ToID:         ids[next],
			Intermediate: defaultCount,
		}
		if count, ok := overrides[ids[i]]; ok {
			t.Intermediate = count
			t.Overridden = true
		}
		plan.Transitions[i] = t
	}
	return plan, nil
}

// TotalFrames is the sum of Steps over all transitions.
func (p *Plan) TotalFrames() int {
	total := 0
	for _, t := range p.Transitions {
		total += t.Steps()
	}
	return total
}

// KeyframeFrames returns the 1-based global frame number at which each
// keyframe appears unblended.
func (p *Plan) KeyframeFrames() []int {
	frames := make([]int, len(p.Transitions))
	n := 1
	for i, t := range p.Transitions {
		frames[i] = n
		n += t.Steps()
	}
	return frames
}
