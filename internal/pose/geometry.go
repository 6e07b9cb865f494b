package pose

import (
	"math"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

// Landmark names, COCO-17 naming.
const (
	Nose          = "nose"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// Point is a 2D position in the sequence coordinate space (y grows downward).
type Point struct {
	X float64
	Y float64
}

// Lookup resolves named keypoints in a frame, treating scores below
// MinScore as absent.
type Lookup struct {
	MinScore float64
}

// Point returns the keypoint position and score if present.
func (l Lookup) Point(f model.PoseFrame, name string) (Point, float64, bool) {
	kp, ok := f.Keypoint(name)
	if !ok || kp.Score < l.MinScore {
		return Point{}, 0, false
	}
	return Point{X: kp.X, Y: kp.Y}, kp.Score, true
}

// Points resolves every name or reports false if any is absent. Scores are
// returned in the same order.
func (l Lookup) Points(f model.PoseFrame, names ...string) ([]Point, []float64, bool) {
	pts := make([]Point, len(names))
	scores := make([]float64, len(names))
	for i, name := range names {
		p, s, ok := l.Point(f, name)
		if !ok {
			return nil, nil, false
		}
		pts[i] = p
		scores[i] = s
	}
	return pts, scores, true
}

// Angle returns the interior angle at b formed by a-b-c, in degrees [0,180].
func Angle(a, b, c Point) float64 {
	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * 180 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
