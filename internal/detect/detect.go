// Package detect scans pose-frame sequences for movement patterns.
package detect

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
)

// Movement names emitted by the bank.
const (
	ArmRaise = "Arm Raise"
	Squat    = "Squat"
	Jump     = "Jump"
	Spin     = "Spin"
	LegLift  = "Leg Lift"
)

// Thresholds holds every detector constant. Distances are in normalized
// units, angles in degrees, windows in frames.
type Thresholds struct {
	MinScore float64

	ArmRaiseMargin float64
	ArmRaiseWindow int
	ArmRaiseSkip   int

	KneeAngle   float64
	SquatWindow int
	SquatSkip   int

	JumpRise float64
	JumpLag  int
	// JumpWindow is the span emitted either side of the airborne frame.
	JumpWindow int
	JumpSkip   int

	SpinShift float64
	SpinLag   int
	SpinSkip  int

	LegLiftMargin float64
	LegLiftWindow int
	LegLiftSkip   int
}

// DefaultThresholds returns the stock detector constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinScore: 0.1,

		ArmRaiseMargin: 0.03,
		ArmRaiseWindow: 10,
		ArmRaiseSkip:   20,

		KneeAngle:   140,
		SquatWindow: 10,
		SquatSkip:   20,

		JumpRise:   0.15,
		JumpLag:    5,
		JumpWindow: 5,
		JumpSkip:   15,

		SpinShift: 0.3,
		SpinLag:   10,
		SpinSkip:  15,

		LegLiftMargin: 0.1,
		LegLiftWindow: 10,
		LegLiftSkip:   20,
	}
}

// Bank runs the fixed set of detectors. It holds no state between calls.
type Bank struct {
	t      Thresholds
	lookup pose.Lookup
}

// NewBank returns a Bank using the given thresholds.
func NewBank(t Thresholds) *Bank {
	return &Bank{t: t, lookup: pose.Lookup{MinScore: t.MinScore}}
}

// Thresholds returns the constants the bank was built with.
func (b *Bank) Thresholds() Thresholds {
	return b.t
}

// Detect runs every detector and returns detections ordered by start frame.
// Detections starting on the same frame keep detector order.
func (b *Bank) Detect(frames []model.PoseFrame) []model.Detection {
	var out []model.Detection
	out = append(out, b.ArmRaises(frames)...)
	out = append(out, b.Squats(frames)...)
	out = append(out, b.Jumps(frames)...)
	out = append(out, b.Spins(frames)...)
	out = append(out, b.LegLifts(frames)...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartFrame < out[j].StartFrame
	})
	return out
}

// scan walks [from, to) calling match on each index. A hit advances the
// pointer by skip so that one sustained pattern yields one detection.
func scan(from, to, skip int, match func(i int) bool) {
	if skip < 1 {
		skip = 1
	}
	for i := from; i < to; {
		if match(i) {
			i += skip
			continue
		}
		i++
	}
}

// windowConfidence is the mean score of the named keypoints over
// frames[start..end], counting only keypoints that are present.
func (b *Bank) windowConfidence(frames []model.PoseFrame, start, end int, names ...string) float64 {
	var scores []float64
	for i := start; i <= end && i < len(frames); i++ {
		for _, name := range names {
			if _, s, ok := b.lookup.Point(frames[i], name); ok {
				scores = append(scores, s)
			}
		}
	}
	if len(scores) == 0 {
		return 0
	}
	return clamp01(stat.Mean(scores, nil))
}

// drift returns the horizontal range of a tracked point over a window,
// and the mean absolute frame-to-frame displacement of it.
func drift(points []pose.Point) (xRange, jitter float64) {
	if len(points) == 0 {
		return 0, 0
	}
	minX, maxX := points[0].X, points[0].X
	var steps []float64
	for i, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if i > 0 {
			dx := p.X - points[i-1].X
			dy := p.Y - points[i-1].Y
			steps = append(steps, abs(dx)+abs(dy))
		}
	}
	if len(steps) > 0 {
		jitter = stat.Mean(steps, nil)
	}
	return maxX - minX, jitter
}

func windowEnd(start, size, n int) int {
	end := start + size
	if end > n-1 {
		end = n - 1
	}
	if end < start {
		end = start
	}
	return end
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
