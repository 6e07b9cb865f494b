// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Keypoint is a named anatomical landmark with a confidence score in [0,1].
type Keypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// PoseFrame is one sampled instant. Timestamp is milliseconds since the
// start of the sequence.
type PoseFrame struct {
	Timestamp float64    `json:"timestamp"`
	Keypoints []Keypoint `json:"keypoints"`
}

// Keypoint returns the first keypoint with the given name.
func (f PoseFrame) Keypoint(name string) (Keypoint, bool) {
	for _, kp := range f.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Sequence is a pose-frame file as stored on disk. Width and Height are set
// only when coordinates are in pixels.
type Sequence struct {
	VideoID string      `json:"video_id"`
	Width   float64     `json:"width,omitempty"`
	Height  float64     `json:"height,omitempty"`
	Frames  []PoseFrame `json:"frames"`
}

// Detection is a raw detector hit over a frame span.
type Detection struct {
	Name            string
	StartFrame      int
	EndFrame        int
	Confidence      float64
	Characteristics []string
	BodyParts       []string
}

// HasTag reports whether the detection carries the characteristic tag.
func (d Detection) HasTag(tag string) bool {
	for _, t := range d.Characteristics {
		if t == tag {
			return true
		}
	}
	return false
}

// Style is an inferred dance style.
type Style string

// Known styles, in tie-break order.
const (
	StyleBallet       Style = "ballet"
	StyleHipHop       Style = "hip-hop"
	StyleContemporary Style = "contemporary"
	StyleJazz         Style = "jazz"
	StyleLatin        Style = "latin"
	StyleFreestyle    Style = "freestyle"
)

// Styles lists every style in tie-break order.
var Styles = []Style{
	StyleBallet,
	StyleHipHop,
	StyleContemporary,
	StyleJazz,
	StyleLatin,
	StyleFreestyle,
}

// ParseStyle resolves a style name, accepting "hiphop" and "hip hop" spellings.
func ParseStyle(s string) (Style, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "-")
	if norm == "hiphop" {
		norm = string(StyleHipHop)
	}
	for _, st := range Styles {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// Order returns the tie-break position of the style.
func (s Style) Order() int {
	for i, st := range Styles {
		if st == s {
			return i
		}
	}
	return len(Styles)
}

// Difficulty is an ordinal difficulty tier.
type Difficulty int

// Difficulty tiers.
const (
	Beginner Difficulty = iota + 1
	Intermediate
	Advanced
	Professional
)

var difficultyNames = map[Difficulty]string{
	Beginner:     "Beginner",
	Intermediate: "Intermediate",
	Advanced:     "Advanced",
	Professional: "Professional",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "Beginner"
}

// MarshalText encodes the tier by name.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a tier name.
func (d *Difficulty) UnmarshalText(text []byte) error {
	for tier, name := range difficultyNames {
		if strings.EqualFold(name, string(text)) {
			*d = tier
			return nil
		}
	}
	return fmt.Errorf("unknown difficulty %q", string(text))
}

// DanceMovement is the user-facing, annotated form of a detection.
type DanceMovement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Movement    string     `json:"movement"`
	Style       Style      `json:"style"`
	Difficulty  Difficulty `json:"difficulty"`
	Confidence  float64    `json:"confidence"`
	StartFrame  int        `json:"start_frame"`
	EndFrame    int        `json:"end_frame"`
	Timestamp   float64    `json:"timestamp"`
	Duration    float64    `json:"duration"`
	StartTime   float64    `json:"start_time"`
	EndTime     float64    `json:"end_time"`
	BodyParts   []string   `json:"body_parts"`
	Technique   string     `json:"technique"`
	Description string     `json:"description"`
}

// QualityMetrics are 0-100 quality scores.
type QualityMetrics struct {
	Overall    float64 `json:"overall"`
	Technique  float64 `json:"technique"`
	Timing     float64 `json:"timing"`
	Expression float64 `json:"expression"`
	Clarity    float64 `json:"clarity"`
}

// StyleStat is one row of the style distribution.
type StyleStat struct {
	Style             Style   `json:"style"`
	Count             int     `json:"count"`
	Percentage        float64 `json:"percentage"`
	AverageDifficulty float64 `json:"average_difficulty"`
}

// DanceMetrics are derived counts and 0-1 scores.
type DanceMetrics struct {
	TotalMovements    int     `json:"total_movements"`
	UniqueStyles      int     `json:"unique_styles"`
	AverageDifficulty float64 `json:"average_difficulty"`
	ComplexityScore   float64 `json:"complexity_score"`
	ExpressionScore   float64 `json:"expression_score"`
}

// AnalysisResult is the aggregate output of one analysis.
type AnalysisResult struct {
	VideoID           string                    `json:"video_id"`
	Duration          float64                   `json:"duration"`
	DetectedMovements []DanceMovement           `json:"detected_movements"`
	Quality           QualityMetrics            `json:"quality"`
	PrimaryStyle      Style                     `json:"primary_style"`
	StyleDistribution []StyleStat               `json:"style_distribution"`
	MovementsByStyle  map[Style][]DanceMovement `json:"movements_by_style"`
	Metrics           DanceMetrics              `json:"metrics"`
	Recommendations   []string                  `json:"recommendations"`
}

// AnalyzeConfig defines analyze command settings.
type AnalyzeConfig struct {
	StyleHint      string
	MinConfidence  float64
	ArmRaiseMargin float64
	KneeAngle      float64
	JumpThreshold  float64
	SpinThreshold  float64
	LegLiftMargin  float64
	Store          bool
	JSON           bool
	MetadataPath   string
}

// HistoryConfig defines filters for stored analyses.
type HistoryConfig struct {
	Style       string
	Since       *time.Time
	Last        int
	TrendWindow int
}

// AnalysisSummary is a stored analysis row.
type AnalysisSummary struct {
	ID                string
	VideoID           string
	SourcePath        string
	CreatedAt         time.Time
	Duration          float64
	PrimaryStyle      Style
	Quality           QualityMetrics
	MovementCount     int
	UniqueStyles      int
	AverageDifficulty float64
}

// StyleAggregate aggregates stored movements by style.
type StyleAggregate struct {
	Style             Style
	Count             int
	AverageConfidence float64
	AverageDifficulty float64
}
