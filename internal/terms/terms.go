// Package terms maps generic movement and body-part names to dance vocabulary.
package terms

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

var movementNames = map[string]map[model.Style]string{
	"Arm Raise": {
		model.StyleBallet:       "Port de Bras",
		model.StyleHipHop:       "Arm Wave",
		model.StyleContemporary: "Reach",
		model.StyleJazz:         "Jazz Hands",
		model.StyleLatin:        "Arm Styling",
	},
	"Squat": {
		model.StyleBallet:       "Plié",
		model.StyleHipHop:       "Get Low",
		model.StyleContemporary: "Release",
		model.StyleJazz:         "Jazz Squat",
		model.StyleLatin:        "Hip Drop",
	},
	"Jump": {
		model.StyleBallet:       "Sauté",
		model.StyleHipHop:       "Hop",
		model.StyleContemporary: "Leap",
		model.StyleJazz:         "Jazz Leap",
		model.StyleLatin:        "Jump Step",
	},
	"Spin": {
		model.StyleBallet:       "Pirouette",
		model.StyleHipHop:       "Spin Move",
		model.StyleContemporary: "Turn",
		model.StyleJazz:         "Jazz Turn",
		model.StyleLatin:        "Vuelta",
	},
	"Leg Lift": {
		model.StyleBallet:       "Développé",
		model.StyleHipHop:       "Knee Up",
		model.StyleContemporary: "Extension",
		model.StyleJazz:         "Kick",
		model.StyleLatin:        "Leg Flick",
	},
}

var bodyParts = map[string]string{
	"arms":      "Arms",
	"shoulders": "Shoulders",
	"hips":      "Hips",
	"knees":     "Knees",
	"legs":      "Legs",
	"feet":      "Feet",
	"core":      "Core",
	"left_leg":  "Working Leg (Left)",
	"right_leg": "Working Leg (Right)",
}

var techniques = map[string]map[model.Style]string{
	"Arm Raise": {
		model.StyleBallet: "Lift through the arms with rounded elbows, shoulders down.",
		model.StyleHipHop: "Drive the arms up with isolated, sharp accents.",
	},
	"Squat": {
		model.StyleBallet: "Bend the knees over the toes keeping the spine vertical and turnout engaged.",
		model.StyleLatin:  "Lower through the knees while the hips lead the motion.",
	},
	"Jump": {
		model.StyleBallet: "Push through the floor with pointed feet and land softly through demi-plié.",
		model.StyleJazz:   "Explode upward with energy and land ready for the next count.",
		model.StyleHipHop: "Pop off the ground and hit the landing on the beat.",
	},
	"Spin": {
		model.StyleBallet: "Spot the head, hold the passé and keep the core lifted.",
	},
	"Leg Lift": {
		model.StyleBallet:       "Unfold the leg slowly from the knee with the supporting leg straight.",
		model.StyleContemporary: "Let the extension flow from the hip with released energy.",
	},
}

var genericTechniques = map[string]string{
	"Arm Raise": "Raise both arms above shoulder height with control.",
	"Squat":     "Bend the knees with weight centered over the feet.",
	"Jump":      "Leave the floor with both feet and land with bent knees.",
	"Spin":      "Rotate around a stable vertical axis.",
	"Leg Lift":  "Lift the knee above hip height while balancing on the other leg.",
}

// MovementName returns the style-specific name of a movement.
func MovementName(name string, style model.Style) string {
	if byStyle, ok := movementNames[name]; ok {
		if term, ok := byStyle[style]; ok {
			return term
		}
	}
	return Title(name)
}

// BodyPart returns the display name of a body part.
func BodyPart(part string) string {
	if term, ok := bodyParts[part]; ok {
		return term
	}
	return Title(part)
}

// BodyParts maps every part with BodyPart.
func BodyParts(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = BodyPart(p)
	}
	return out
}

// Technique returns a technique cue for the movement in the given style.
func Technique(name string, style model.Style) string {
	if byStyle, ok := techniques[name]; ok {
		if cue, ok := byStyle[style]; ok {
			return cue
		}
	}
	if cue, ok := genericTechniques[name]; ok {
		return cue
	}
	return "Focus on clean execution of the " + strings.ToLower(Title(name)) + "."
}

// Title title-cases a snake_case, kebab-case or spaced name.
func Title(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(name))
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
