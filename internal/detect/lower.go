package detect

import (
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
)

var (
	leftLeg  = []string{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle}
	rightLeg = []string{pose.RightHip, pose.RightKnee, pose.RightAnkle}
	legNames = append(append([]string{}, leftLeg...), rightLeg...)
)

type kneeReading struct {
	left, right       float64
	hasLeft, hasRight bool
	hip               pose.Point
}

// support is the straighter visible knee; both legs must bend for a squat.
func (r kneeReading) support() float64 {
	switch {
	case r.hasLeft && r.hasRight:
		return max(r.left, r.right)
	case r.hasLeft:
		return r.left
	default:
		return r.right
	}
}

// knees measures hip-knee-ankle angles for whichever legs are visible.
func (b *Bank) knees(f model.PoseFrame) (kneeReading, bool) {
	var r kneeReading
	var hips []pose.Point
	if pts, _, ok := b.lookup.Points(f, leftLeg...); ok {
		r.left, r.hasLeft = pose.Angle(pts[0], pts[1], pts[2]), true
		hips = append(hips, pts[0])
	}
	if pts, _, ok := b.lookup.Points(f, rightLeg...); ok {
		r.right, r.hasRight = pose.Angle(pts[0], pts[1], pts[2]), true
		hips = append(hips, pts[0])
	}
	switch len(hips) {
	case 0:
		return r, false
	case 1:
		r.hip = hips[0]
	default:
		r.hip = pose.Midpoint(hips[0], hips[1])
	}
	return r, true
}

// Squats finds knee bends below KneeAngle degrees on the supporting leg.
func (b *Bank) Squats(frames []model.PoseFrame) []model.Detection {
	t := b.t
	n := len(frames)
	var out []model.Detection
	scan(0, n, t.SquatSkip, func(i int) bool {
		r, ok := b.knees(frames[i])
		if !ok || r.support() >= t.KneeAngle {
			return false
		}
		end := windowEnd(i, t.SquatWindow, n)
		out = append(out, model.Detection{
			Name:            Squat,
			StartFrame:      i,
			EndFrame:        end,
			Confidence:      b.windowConfidence(frames, i, end, legNames...),
			Characteristics: b.squatTags(frames[i : end+1]),
			BodyParts:       []string{"hips", "knees", "legs"},
		})
		return true
	})
	return out
}

func (b *Bank) squatTags(window []model.PoseFrame) []string {
	minAngle := 180.0
	var hips []pose.Point
	var asym float64
	pairs := 0
	for _, f := range window {
		r, ok := b.knees(f)
		if !ok {
			continue
		}
		if m := r.support(); m < minAngle {
			minAngle = m
		}
		if r.hasLeft && r.hasRight {
			asym += abs(r.left - r.right)
			pairs++
		}
		hips = append(hips, r.hip)
	}
	var tags []string
	if minAngle < 100 {
		tags = append(tags, "deep")
	}
	if pairs > 0 {
		if asym/float64(pairs) < 10 {
			tags = append(tags, "controlled")
		} else {
			tags = append(tags, "isolated")
		}
	}
	xRange, _ := drift(hips)
	switch {
	case len(hips) == 0:
	case xRange < 0.03:
		tags = append(tags, "precise")
	case xRange > 0.1:
		tags = append(tags, "hip", "sway")
	}
	return tags
}

// Jumps compares ankle height JumpLag frames apart; an upward rise above
// JumpRise marks a jump. The emitted window spans JumpWindow frames either
// side of the airborne frame.
func (b *Bank) Jumps(frames []model.PoseFrame) []model.Detection {
	t := b.t
	n := len(frames)
	var out []model.Detection
	scan(0, n-t.JumpLag, t.JumpSkip, func(i int) bool {
		before, ok := b.groundedAnkle(frames[i])
		if !ok {
			return false
		}
		after, ok := b.groundedAnkle(frames[i+t.JumpLag])
		if !ok {
			return false
		}
		// y grows downward, so a rise is a decrease in y.
		rise := before - after
		if rise <= t.JumpRise {
			return false
		}
		air := i + t.JumpLag
		start := max(0, air-t.JumpWindow)
		end := windowEnd(air, t.JumpWindow, n)
		tags := []string{"explosive"}
		if rise > 0.25 {
			tags = append(tags, "sharp", "high-intensity")
		} else {
			tags = append(tags, "energetic")
		}
		out = append(out, model.Detection{
			Name:            Jump,
			StartFrame:      start,
			EndFrame:        end,
			Confidence:      b.windowConfidence(frames, start, end, pose.LeftAnkle, pose.RightAnkle),
			Characteristics: tags,
			BodyParts:       []string{"legs", "feet", "core"},
		})
		return true
	})
	return out
}

// groundedAnkle returns the y of the lowest visible ankle. A jump needs
// both feet off the floor, so a single raised foot does not count.
func (b *Bank) groundedAnkle(f model.PoseFrame) (float64, bool) {
	y, found := 0.0, false
	for _, name := range []string{pose.LeftAnkle, pose.RightAnkle} {
		if p, _, ok := b.lookup.Point(f, name); ok && (!found || p.Y > y) {
			y, found = p.Y, true
		}
	}
	return y, found
}

// LegLifts finds a knee raised above its hip by LegLiftMargin.
func (b *Bank) LegLifts(frames []model.PoseFrame) []model.Detection {
	t := b.t
	n := len(frames)
	var out []model.Detection
	scan(0, n, t.LegLiftSkip, func(i int) bool {
		side, lift := b.liftedLeg(frames[i])
		if side == "" {
			return false
		}
		end := windowEnd(i, t.LegLiftWindow, n)
		tags := []string{"extended"}
		if lift > 0.2 {
			tags = append(tags, "precise")
		} else {
			tags = append(tags, "expressive")
		}
		if b.supportStraight(frames[i], side) {
			tags = append(tags, "controlled")
		}
		out = append(out, model.Detection{
			Name:            LegLift,
			StartFrame:      i,
			EndFrame:        end,
			Confidence:      b.windowConfidence(frames, i, end, legNames...),
			Characteristics: tags,
			BodyParts:       []string{"hips", side + "_leg", "core"},
		})
		return true
	})
	return out
}

// liftedLeg returns the side whose knee is highest above its hip, if any
// clears the margin.
func (b *Bank) liftedLeg(f model.PoseFrame) (string, float64) {
	side, best := "", 0.0
	for _, leg := range []struct {
		side string
		hip  string
		knee string
	}{
		{"left", pose.LeftHip, pose.LeftKnee},
		{"right", pose.RightHip, pose.RightKnee},
	} {
		pts, _, ok := b.lookup.Points(f, leg.hip, leg.knee)
		if !ok {
			continue
		}
		lift := pts[0].Y - pts[1].Y
		if lift > b.t.LegLiftMargin && lift > best {
			side, best = leg.side, lift
		}
	}
	return side, best
}

func (b *Bank) supportStraight(f model.PoseFrame, lifted string) bool {
	names := rightLeg
	if lifted == "right" {
		names = leftLeg
	}
	pts, _, ok := b.lookup.Points(f, names...)
	if !ok {
		return false
	}
	return pose.Angle(pts[0], pts[1], pts[2]) > 160
}
