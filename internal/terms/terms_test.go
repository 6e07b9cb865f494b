package terms

import (
	"testing"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

func TestMovementName(t *testing.T) {
	if got := MovementName("Squat", model.StyleBallet); got != "Plié" {
		t.Fatalf("expected Plié, got %q", got)
	}
	if got := MovementName("Squat", model.StyleFreestyle); got != "Squat" {
		t.Fatalf("expected fallback to original name, got %q", got)
	}
	if got := MovementName("body_roll", model.StyleHipHop); got != "Body Roll" {
		t.Fatalf("expected title-cased fallback, got %q", got)
	}
}

func TestBodyPartFallback(t *testing.T) {
	if got := BodyPart("knees"); got != "Knees" {
		t.Fatalf("unexpected mapping: %q", got)
	}
	if got := BodyPart("left_wrist"); got != "Left Wrist" {
		t.Fatalf("expected title-cased fallback, got %q", got)
	}
	if got := BodyPart(""); got != "" {
		t.Fatalf("expected empty name to stay empty, got %q", got)
	}
}

func TestTechniqueFallbacks(t *testing.T) {
	if got := Technique("Spin", model.StyleHipHop); got != genericTechniques["Spin"] {
		t.Fatalf("expected generic cue, got %q", got)
	}
	if got := Technique("Moonwalk", model.StyleHipHop); got != "Focus on clean execution of the moonwalk." {
		t.Fatalf("unexpected cue: %q", got)
	}
}
