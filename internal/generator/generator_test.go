package generator

import (
	"math"
	"reflect"
	"testing"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
)

func TestRoutineDeterministicPerSeed(t *testing.T) {
	a := New(42, 0.01).Routine("r")
	b := New(42, 0.01).Routine("r")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical routines for one seed")
	}
	c := New(43, 0.01).Routine("r")
	if reflect.DeepEqual(a, c) {
		t.Fatalf("expected different seeds to differ")
	}
}

func TestPerturbWithoutJitterIsNoop(t *testing.T) {
	frames := Standing(5)
	New(1, 0).Perturb(frames)
	if !reflect.DeepEqual(frames, Standing(5)) {
		t.Fatalf("expected zero jitter to leave frames untouched")
	}
}

func TestStandingTimestamps(t *testing.T) {
	frames := Standing(31)
	if frames[0].Timestamp != 0 || frames[30].Timestamp != 1000 {
		t.Fatalf("expected 30fps timestamps, got %v and %v", frames[0].Timestamp, frames[30].Timestamp)
	}
	if len(frames[3].Keypoints) != 13 {
		t.Fatalf("expected 13 keypoints, got %d", len(frames[3].Keypoints))
	}
}

func TestRaiseArms(t *testing.T) {
	frames := Standing(10)
	RaiseArms(frames, 2, 4, 0.1)
	sh, _ := frames[3].Keypoint(pose.LeftShoulder)
	wr, _ := frames[3].Keypoint(pose.LeftWrist)
	if math.Abs(sh.Y-0.1-wr.Y) > 1e-9 {
		t.Fatalf("expected wrist 0.1 above shoulder, got shoulder %v wrist %v", sh.Y, wr.Y)
	}
	if untouched, _ := frames[5].Keypoint(pose.LeftWrist); untouched.Y != 0.55 {
		t.Fatalf("expected frame outside range untouched, got %v", untouched.Y)
	}
}

func TestBendKneesAngle(t *testing.T) {
	frames := Standing(3)
	BendKnees(frames, 1, 1, 100, "right")
	lookup := pose.Lookup{}
	pts, _, ok := lookup.Points(frames[1], pose.RightHip, pose.RightKnee, pose.RightAnkle)
	if !ok {
		t.Fatalf("expected right leg present")
	}
	if got := pose.Angle(pts[0], pts[1], pts[2]); math.Abs(got-100) > 1e-6 {
		t.Fatalf("expected knee angle 100, got %f", got)
	}
	left, _, _ := lookup.Points(frames[1], pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	if got := pose.Angle(left[0], left[1], left[2]); got < 179 {
		t.Fatalf("expected left leg straight, got %f", got)
	}
}

func TestDrop(t *testing.T) {
	frames := Standing(4)
	Drop(frames, 1, 2, pose.Nose, pose.LeftAnkle)
	if _, ok := frames[1].Keypoint(pose.Nose); ok {
		t.Fatalf("expected nose dropped")
	}
	if len(frames[2].Keypoints) != 11 {
		t.Fatalf("expected 11 keypoints, got %d", len(frames[2].Keypoints))
	}
	if _, ok := frames[3].Keypoint(pose.Nose); !ok {
		t.Fatalf("expected frame outside range untouched")
	}
}

func TestSetScoresClampedByPerturb(t *testing.T) {
	frames := Standing(20)
	SetScores(frames, 0.02)
	New(5, 0.01).Perturb(frames)
	for _, f := range frames {
		for _, kp := range f.Keypoints {
			if kp.Score < 0 || kp.Score > 1 {
				t.Fatalf("score out of range: %v", kp.Score)
			}
		}
	}
}
