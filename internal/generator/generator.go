// Package generator builds synthetic pose-frame sequences.
package generator

import (
	"math"
	"math/rand"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
)

const (
	defaultFPS   = 30.0
	defaultScore = 0.9
	shinLength   = 0.18
	thighLength  = 0.17
)

// standing is a front-facing neutral pose in normalized image coordinates.
var standing = []model.Keypoint{
	{Name: pose.Nose, X: 0.50, Y: 0.15},
	{Name: pose.LeftShoulder, X: 0.42, Y: 0.30},
	{Name: pose.RightShoulder, X: 0.58, Y: 0.30},
	{Name: pose.LeftElbow, X: 0.40, Y: 0.42},
	{Name: pose.RightElbow, X: 0.60, Y: 0.42},
	{Name: pose.LeftWrist, X: 0.40, Y: 0.55},
	{Name: pose.RightWrist, X: 0.60, Y: 0.55},
	{Name: pose.LeftHip, X: 0.45, Y: 0.55},
	{Name: pose.RightHip, X: 0.55, Y: 0.55},
	{Name: pose.LeftKnee, X: 0.45, Y: 0.72},
	{Name: pose.RightKnee, X: 0.55, Y: 0.72},
	{Name: pose.LeftAnkle, X: 0.45, Y: 0.90},
	{Name: pose.RightAnkle, X: 0.55, Y: 0.90},
}

// Generator produces sequences. Jitter adds seeded gaussian noise to
// coordinates and scores so repeated runs with one seed are identical.
type Generator struct {
	rnd    *rand.Rand
	jitter float64
}

// New returns a Generator with the given seed and coordinate noise.
func New(seed int64, jitter float64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), jitter: jitter}
}

// Standing returns n neutral frames sampled at 30 fps.
func Standing(n int) []model.PoseFrame {
	frames := make([]model.PoseFrame, n)
	for i := range frames {
		kps := make([]model.Keypoint, len(standing))
		for j, kp := range standing {
			kp.Score = defaultScore
			kps[j] = kp
		}
		frames[i] = model.PoseFrame{
			Timestamp: math.Round(float64(i) * 1000 / defaultFPS),
			Keypoints: kps,
		}
	}
	return frames
}

// RaiseArms places both wrists lift units above their shoulders on frames
// [from, to].
func RaiseArms(frames []model.PoseFrame, from, to int, lift float64) {
	each(frames, from, to, func(_ int, f *model.PoseFrame) {
		for _, side := range [][3]string{
			{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
			{pose.RightShoulder, pose.RightElbow, pose.RightWrist},
		} {
			sh, ok := find(f, side[0])
			if !ok {
				continue
			}
			wristY := sh.Y - lift
			set(f, side[2], sh.X, wristY)
			set(f, side[1], sh.X, (sh.Y+wristY)/2)
		}
	})
}

// BendKnees bends the named legs ("left", "right") to the given knee angle
// on frames [from, to]. Ankles stay planted; knees and hips move.
func BendKnees(frames []model.PoseFrame, from, to int, angle float64, legs ...string) {
	if len(legs) == 0 {
		legs = []string{"left", "right"}
	}
	rad := angle * math.Pi / 180
	each(frames, from, to, func(_ int, f *model.PoseFrame) {
		for _, leg := range legs {
			hip, knee, ankle, dir := pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, -1.0
			if leg == "right" {
				hip, knee, ankle, dir = pose.RightHip, pose.RightKnee, pose.RightAnkle, 1.0
			}
			a, ok := find(f, ankle)
			if !ok {
				continue
			}
			kx, ky := a.X, a.Y-shinLength
			set(f, knee, kx, ky)
			set(f, hip, kx+dir*thighLength*math.Sin(rad), ky+thighLength*math.Cos(rad))
		}
	})
}

// Jump lifts the whole body by height on frames [at, at+length).
func Jump(frames []model.PoseFrame, at, length int, height float64) {
	each(frames, at, at+length-1, func(_ int, f *model.PoseFrame) {
		for i := range f.Keypoints {
			f.Keypoints[i].Y -= height
		}
	})
}

// Spin swings the shoulders horizontally by up to shift across frames
// [from, to], peaking at the midpoint and returning to neutral.
func Spin(frames []model.PoseFrame, from, to int, shift float64) {
	span := float64(to - from)
	if span <= 0 {
		return
	}
	each(frames, from, to, func(i int, f *model.PoseFrame) {
		progress := float64(i-from) / span
		offset := shift * (1 - math.Abs(2*progress-1))
		move := func(name string, sign float64) {
			if kp, ok := find(f, name); ok {
				set(f, name, kp.X+sign*offset, kp.Y)
			}
		}
		move(pose.LeftShoulder, 1)
		move(pose.RightShoulder, -1)
	})
}

// LiftLeg raises one knee lift units above its hip on frames [from, to],
// extending the foot forward. The other leg stays straight.
func LiftLeg(frames []model.PoseFrame, from, to int, side string, lift float64) {
	hip, knee, ankle := pose.LeftHip, pose.LeftKnee, pose.LeftAnkle
	if side == "right" {
		hip, knee, ankle = pose.RightHip, pose.RightKnee, pose.RightAnkle
	}
	each(frames, from, to, func(_ int, f *model.PoseFrame) {
		h, ok := find(f, hip)
		if !ok {
			return
		}
		set(f, knee, h.X, h.Y-lift)
		set(f, ankle, h.X+shinLength, h.Y-lift)
	})
}

// SetScores sets every keypoint score on every frame.
func SetScores(frames []model.PoseFrame, score float64) {
	each(frames, 0, len(frames)-1, func(_ int, f *model.PoseFrame) {
		for i := range f.Keypoints {
			f.Keypoints[i].Score = score
		}
	})
}

// Drop removes the named keypoints from frames [from, to].
func Drop(frames []model.PoseFrame, from, to int, names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	each(frames, from, to, func(_ int, f *model.PoseFrame) {
		kept := f.Keypoints[:0]
		for _, kp := range f.Keypoints {
			if _, ok := drop[kp.Name]; !ok {
				kept = append(kept, kp)
			}
		}
		f.Keypoints = kept
	})
}

// Routine returns a demo sequence containing every movement the detector
// bank recognizes, with the generator's noise applied.
func (g *Generator) Routine(videoID string) model.Sequence {
	frames := Standing(300)
	RaiseArms(frames, 20, 40, 0.15)
	BendKnees(frames, 70, 85, 95)
	Jump(frames, 110, 6, 0.22)
	Spin(frames, 140, 160, 0.45)
	LiftLeg(frames, 200, 215, "left", 0.25)
	Jump(frames, 250, 6, 0.3)
	g.Perturb(frames)
	return model.Sequence{VideoID: videoID, Frames: frames}
}

// Perturb adds gaussian coordinate noise and score variation in place.
func (g *Generator) Perturb(frames []model.PoseFrame) {
	if g.jitter <= 0 {
		return
	}
	for i := range frames {
		for j := range frames[i].Keypoints {
			kp := &frames[i].Keypoints[j]
			kp.X += g.rnd.NormFloat64() * g.jitter
			kp.Y += g.rnd.NormFloat64() * g.jitter
			kp.Score = clampScore(kp.Score - g.rnd.Float64()*0.1)
		}
	}
}

func each(frames []model.PoseFrame, from, to int, fn func(i int, f *model.PoseFrame)) {
	if from < 0 {
		from = 0
	}
	for i := from; i <= to && i < len(frames); i++ {
		fn(i, &frames[i])
	}
}

func find(f *model.PoseFrame, name string) (model.Keypoint, bool) {
	return f.Keypoint(name)
}

func set(f *model.PoseFrame, name string, x, y float64) {
	for i := range f.Keypoints {
		if f.Keypoints[i].Name == name {
			f.Keypoints[i].X = x
			f.Keypoints[i].Y = y
			return
		}
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
