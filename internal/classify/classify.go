// Package classify infers dance style and difficulty for detections.
package classify

import (
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

type styleRule struct {
	style model.Style
	match func(tags map[string]bool) bool
}

// Rules are evaluated in order; the first match wins.
var styleRules = []styleRule{
	{model.StyleBallet, func(t map[string]bool) bool { return t["controlled"] && t["precise"] }},
	{model.StyleHipHop, func(t map[string]bool) bool { return t["sharp"] || t["isolated"] || t["high-intensity"] }},
	{model.StyleContemporary, func(t map[string]bool) bool { return t["fluid"] || t["expressive"] }},
	{model.StyleJazz, func(t map[string]bool) bool { return t["energetic"] }},
	{model.StyleLatin, func(t map[string]bool) bool { return t["hip"] || t["sway"] || t["hip-driven"] }},
}

// InferStyle picks a style from characteristic tags. When no rule matches
// the hint is used if it names a known style, otherwise freestyle.
func InferStyle(tags []string, hint model.Style) model.Style {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[tag] = true
	}
	for _, rule := range styleRules {
		if rule.match(set) {
			return rule.style
		}
	}
	if hint != "" && hint.Order() < len(model.Styles) {
		return hint
	}
	return model.StyleFreestyle
}

// difficultyFloors lifts movements that are never easy.
var difficultyFloors = map[string]model.Difficulty{
	"Spin":     model.Advanced,
	"Jump":     model.Intermediate,
	"Leg Lift": model.Intermediate,
}

// InferDifficulty maps confidence to a tier, then applies the per-movement floor.
func InferDifficulty(name string, confidence float64) model.Difficulty {
	tier := model.Beginner
	switch {
	case confidence >= 0.95:
		tier = model.Professional
	case confidence >= 0.85:
		tier = model.Advanced
	case confidence >= 0.7:
		tier = model.Intermediate
	}
	if floor, ok := difficultyFloors[name]; ok && tier < floor {
		tier = floor
	}
	return tier
}
