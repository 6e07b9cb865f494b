// Package analysis turns detector output into an AnalysisResult.
package analysis

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/classify"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/detect"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/terms"
)

// Quality multipliers applied to the mean keypoint confidence.
const (
	overallScale    = 100
	techniqueScale  = 95
	timingScale     = 90
	expressionScale = 85
	clarityScale    = 100
)

// Recommendation texts.
const (
	RecNoMovement   = "No movement detected. Make sure your full body is visible in the frame."
	RecLighting     = "Improve lighting and camera position so every joint is clearly tracked."
	RecLonger       = "Try a longer routine to showcase more movements."
	RecMixStyles    = "Mix in movements from other styles to add variety."
	RecRange        = "Great stylistic range across your routine."
	RecDifficulty   = "Add more challenging movements such as spins or jumps."
	RecKeepPractice = "Keep practicing to refine your technique."
)

// movementNamespace scopes movement IDs.
var movementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("movemint:movement"))

// Options configures an Analyzer.
type Options struct {
	Thresholds detect.Thresholds
	// StyleHint is used for detections no style rule matches.
	StyleHint model.Style
}

// DefaultOptions returns the stock thresholds and no hint.
func DefaultOptions() Options {
	return Options{Thresholds: detect.DefaultThresholds()}
}

// OptionsFromConfig overlays analyze settings on the defaults. Zero values
// keep the default. ArmRaiseMargin is the distance a wrist must clear above
// its shoulder.
func OptionsFromConfig(cfg model.AnalyzeConfig) (Options, error) {
	opts := DefaultOptions()
	if cfg.StyleHint != "" {
		style, err := model.ParseStyle(cfg.StyleHint)
		if err != nil {
			return Options{}, fmt.Errorf("failed to parse style hint: %w", err)
		}
		opts.StyleHint = style
	}
	t := &opts.Thresholds
	if cfg.MinConfidence > 0 {
		t.MinScore = cfg.MinConfidence
	}
	if cfg.ArmRaiseMargin > 0 {
		t.ArmRaiseMargin = cfg.ArmRaiseMargin
	}
	if cfg.KneeAngle > 0 {
		t.KneeAngle = cfg.KneeAngle
	}
	if cfg.JumpThreshold > 0 {
		t.JumpRise = cfg.JumpThreshold
	}
	if cfg.SpinThreshold > 0 {
		t.SpinShift = cfg.SpinThreshold
	}
	if cfg.LegLiftMargin > 0 {
		t.LegLiftMargin = cfg.LegLiftMargin
	}
	return opts, nil
}

// Analyzer runs the detector bank and aggregates its output. It is safe for
// concurrent use; each call only touches its own input.
type Analyzer struct {
	bank *detect.Bank
	hint model.Style
}

// New returns an Analyzer.
func New(opts Options) *Analyzer {
	return &Analyzer{bank: detect.NewBank(opts.Thresholds), hint: opts.StyleHint}
}

// Analyze detects and aggregates movements in frames.
func (a *Analyzer) Analyze(videoID string, frames []model.PoseFrame) model.AnalysisResult {
	return Aggregate(videoID, frames, a.bank.Detect(frames), a.hint)
}

// Aggregate builds the result for detections found in frames.
func Aggregate(videoID string, frames []model.PoseFrame, detections []model.Detection, hint model.Style) model.AnalysisResult {
	movements := make([]model.DanceMovement, 0, len(detections))
	for _, d := range detections {
		movements = append(movements, annotate(videoID, frames, d, hint))
	}

	byStyle := make(map[model.Style][]model.DanceMovement)
	for _, m := range movements {
		byStyle[m.Style] = append(byStyle[m.Style], m)
	}

	dist := distribution(byStyle, len(movements))
	primary := model.StyleFreestyle
	if len(dist) > 0 {
		primary = dist[0].Style
	}
	quality := qualityMetrics(frames)
	metrics := danceMetrics(movements, len(dist))

	return model.AnalysisResult{
		VideoID:           videoID,
		Duration:          duration(frames),
		DetectedMovements: movements,
		Quality:           quality,
		PrimaryStyle:      primary,
		StyleDistribution: dist,
		MovementsByStyle:  byStyle,
		Metrics:           metrics,
		Recommendations:   recommend(len(frames), quality, metrics),
	}
}

func annotate(videoID string, frames []model.PoseFrame, d model.Detection, hint model.Style) model.DanceMovement {
	style := classify.InferStyle(d.Characteristics, hint)
	difficulty := classify.InferDifficulty(d.Name, d.Confidence)
	name := terms.MovementName(d.Name, style)

	var origin, start, end float64
	if len(frames) > 0 {
		origin = frames[0].Timestamp
		start = frames[frameIndex(d.StartFrame, len(frames))].Timestamp
		end = frames[frameIndex(d.EndFrame, len(frames))].Timestamp
	}

	return model.DanceMovement{
		ID:          MovementID(videoID, d),
		Name:        name,
		Movement:    d.Name,
		Style:       style,
		Difficulty:  difficulty,
		Confidence:  d.Confidence,
		StartFrame:  d.StartFrame,
		EndFrame:    d.EndFrame,
		Timestamp:   start,
		Duration:    (end - start) / 1000,
		StartTime:   (start - origin) / 1000,
		EndTime:     (end - origin) / 1000,
		BodyParts:   terms.BodyParts(d.BodyParts),
		Technique:   terms.Technique(d.Name, style),
		Description: fmt.Sprintf("%s (%s, %s) at %.1fs with %.0f%% confidence", name, terms.Title(string(style)), difficulty, (start-origin)/1000, d.Confidence*100),
	}
}

// MovementID is stable for a video, detector and start frame.
func MovementID(videoID string, d model.Detection) string {
	key := fmt.Sprintf("%s/%s/%d", videoID, d.Name, d.StartFrame)
	return uuid.NewSHA1(movementNamespace, []byte(key)).String()
}

func frameIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func duration(frames []model.PoseFrame) float64 {
	if len(frames) < 2 {
		return 0
	}
	return (frames[len(frames)-1].Timestamp - frames[0].Timestamp) / 1000
}

// qualityMetrics scales the mean per-frame keypoint score. Frames without
// keypoints do not count.
func qualityMetrics(frames []model.PoseFrame) model.QualityMetrics {
	means := make([]float64, 0, len(frames))
	scores := make([]float64, 0, 17)
	for _, f := range frames {
		if len(f.Keypoints) == 0 {
			continue
		}
		scores = scores[:0]
		for _, kp := range f.Keypoints {
			scores = append(scores, kp.Score)
		}
		means = append(means, stat.Mean(scores, nil))
	}
	if len(means) == 0 {
		return model.QualityMetrics{}
	}
	avg := stat.Mean(means, nil)
	return model.QualityMetrics{
		Overall:    avg * overallScale,
		Technique:  avg * techniqueScale,
		Timing:     avg * timingScale,
		Expression: avg * expressionScale,
		Clarity:    avg * clarityScale,
	}
}

func distribution(byStyle map[model.Style][]model.DanceMovement, total int) []model.StyleStat {
	dist := make([]model.StyleStat, 0, len(byStyle))
	if total == 0 {
		return dist
	}
	for style, ms := range byStyle {
		var sum float64
		for _, m := range ms {
			sum += float64(m.Difficulty)
		}
		dist = append(dist, model.StyleStat{
			Style:             style,
			Count:             len(ms),
			Percentage:        100 * float64(len(ms)) / float64(total),
			AverageDifficulty: sum / float64(len(ms)),
		})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Style.Order() < dist[j].Style.Order()
	})
	return dist
}

func danceMetrics(movements []model.DanceMovement, uniqueStyles int) model.DanceMetrics {
	metrics := model.DanceMetrics{
		TotalMovements: len(movements),
		UniqueStyles:   uniqueStyles,
	}
	if len(movements) == 0 {
		return metrics
	}

	difficulties := make([]float64, len(movements))
	confidences := make([]float64, len(movements))
	expressive := 0
	for i, m := range movements {
		difficulties[i] = float64(m.Difficulty)
		confidences[i] = m.Confidence
		switch m.Style {
		case model.StyleContemporary, model.StyleJazz, model.StyleLatin:
			expressive++
		}
	}
	metrics.AverageDifficulty = stat.Mean(difficulties, nil)

	variety := float64(uniqueStyles) / 4
	if variety > 1 {
		variety = 1
	}
	metrics.ComplexityScore = clamp01(0.6*(metrics.AverageDifficulty-1)/3 + 0.4*variety)
	metrics.ExpressionScore = clamp01(0.5*float64(expressive)/float64(len(movements)) + 0.5*stat.Mean(confidences, nil))
	return metrics
}

// recommend evaluates the rules in order. The result is never empty.
func recommend(frameCount int, q model.QualityMetrics, m model.DanceMetrics) []string {
	if m.TotalMovements == 0 {
		recs := []string{RecNoMovement}
		if frameCount > 0 && q.Overall < 60 {
			recs = append(recs, RecLighting)
		}
		return recs
	}

	var recs []string
	if q.Overall < 60 {
		recs = append(recs, RecLighting)
	}
	if m.TotalMovements < 3 {
		recs = append(recs, RecLonger)
	}
	if m.TotalMovements >= 3 && m.UniqueStyles == 1 {
		recs = append(recs, RecMixStyles)
	}
	if m.UniqueStyles >= 3 {
		recs = append(recs, RecRange)
	}
	if m.AverageDifficulty < 2 {
		recs = append(recs, RecDifficulty)
	}
	if len(recs) == 0 {
		recs = append(recs, RecKeepPractice)
	}
	return recs
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
