package detect

import (
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
)

var armNames = []string{pose.LeftShoulder, pose.RightShoulder, pose.LeftWrist, pose.RightWrist}

// ArmRaises finds frames where both wrists are raised above their
// shoulders. A wrist counts as raised once it is more than ArmRaiseMargin
// above its shoulder line. Boundary frames are not scanned.
func (b *Bank) ArmRaises(frames []model.PoseFrame) []model.Detection {
	t := b.t
	n := len(frames)
	var out []model.Detection
	scan(t.ArmRaiseWindow, n-t.ArmRaiseWindow, t.ArmRaiseSkip, func(i int) bool {
		if !b.armsRaised(frames[i]) {
			return false
		}
		end := windowEnd(i, t.ArmRaiseWindow, n)
		out = append(out, model.Detection{
			Name:            ArmRaise,
			StartFrame:      i,
			EndFrame:        end,
			Confidence:      b.windowConfidence(frames, i, end, armNames...),
			Characteristics: b.armTags(frames[i : end+1]),
			BodyParts:       []string{"arms", "shoulders"},
		})
		return true
	})
	return out
}

func (b *Bank) armsRaised(f model.PoseFrame) bool {
	pts, _, ok := b.lookup.Points(f, armNames...)
	if !ok {
		return false
	}
	ls, rs, lw, rw := pts[0], pts[1], pts[2], pts[3]
	// y grows downward, so above means smaller y.
	margin := b.t.ArmRaiseMargin
	return lw.Y < ls.Y-margin && rw.Y < rs.Y-margin
}

func (b *Bank) armTags(window []model.PoseFrame) []string {
	var asym, peak float64
	var wrists []pose.Point
	count := 0
	for _, f := range window {
		pts, _, ok := b.lookup.Points(f, armNames...)
		if !ok {
			continue
		}
		ls, rs, lw, rw := pts[0], pts[1], pts[2], pts[3]
		leftLift := ls.Y - lw.Y
		rightLift := rs.Y - rw.Y
		asym += abs(leftLift - rightLift)
		if leftLift > peak {
			peak = leftLift
		}
		if rightLift > peak {
			peak = rightLift
		}
		wrists = append(wrists, pose.Midpoint(lw, rw))
		count++
	}
	tags := []string{"extended"}
	if count == 0 {
		return tags
	}
	asym /= float64(count)
	if asym < 0.05 {
		tags = append(tags, "controlled")
	} else {
		tags = append(tags, "isolated")
	}
	_, jitter := drift(wrists)
	if jitter < 0.02 {
		tags = append(tags, "precise")
	} else if jitter > 0.05 {
		tags = append(tags, "fluid")
	}
	if peak > 0.2 {
		tags = append(tags, "expressive")
	}
	return tags
}

// Spins compares shoulder horizontal position SpinLag frames apart. The
// left shoulder is used when visible at both ends, otherwise the right.
func (b *Bank) Spins(frames []model.PoseFrame) []model.Detection {
	t := b.t
	n := len(frames)
	var out []model.Detection
	scan(0, n-t.SpinLag, t.SpinSkip, func(i int) bool {
		shift, ok := b.shoulderShift(frames[i], frames[i+t.SpinLag])
		if !ok || shift <= t.SpinShift {
			return false
		}
		end := i + t.SpinLag
		tags := []string{"rotational"}
		if shift > 0.5 {
			tags = append(tags, "sharp")
		} else {
			tags = append(tags, "fluid")
		}
		out = append(out, model.Detection{
			Name:            Spin,
			StartFrame:      i,
			EndFrame:        end,
			Confidence:      b.windowConfidence(frames, i, end, pose.LeftShoulder, pose.RightShoulder),
			Characteristics: tags,
			BodyParts:       []string{"shoulders", "core", "feet"},
		})
		return true
	})
	return out
}

func (b *Bank) shoulderShift(from, to model.PoseFrame) (float64, bool) {
	for _, name := range []string{pose.LeftShoulder, pose.RightShoulder} {
		a, _, okA := b.lookup.Point(from, name)
		c, _, okC := b.lookup.Point(to, name)
		if okA && okC {
			return abs(c.X - a.X), true
		}
	}
	return 0, false
}
