// Package metadata builds token metadata documents from analysis results.
package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/terms"
)

// Attribute is one marketplace trait.
type Attribute struct {
	TraitType   string `json:"trait_type"`
	Value       any    `json:"value"`
	DisplayType string `json:"display_type,omitempty"`
	MaxValue    *int   `json:"max_value,omitempty"`
}

// Document is an ERC-721 metadata JSON document.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image,omitempty"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

// Options customize the document.
type Options struct {
	Name        string
	Image       string
	ExternalURL string
}

const (
	displayNumber = "number"
	displayBoost  = "boost_percentage"
)

// Build converts an analysis result into a metadata document. The attribute
// order is fixed so identical results produce identical documents.
func Build(res model.AnalysisResult, opts Options) Document {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = fmt.Sprintf("MoveMint: %s", res.VideoID)
	}
	doc := Document{
		Name:        name,
		Description: description(res),
		Image:       opts.Image,
		ExternalURL: opts.ExternalURL,
	}

	hundred := 100
	attrs := []Attribute{
		{TraitType: "Primary Style", Value: terms.Title(string(res.PrimaryStyle))},
		{TraitType: "Overall Quality", Value: round1(res.Quality.Overall), DisplayType: displayNumber, MaxValue: &hundred},
		{TraitType: "Technique", Value: round1(res.Quality.Technique), DisplayType: displayNumber, MaxValue: &hundred},
		{TraitType: "Timing", Value: round1(res.Quality.Timing), DisplayType: displayNumber, MaxValue: &hundred},
		{TraitType: "Expression", Value: round1(res.Quality.Expression), DisplayType: displayNumber, MaxValue: &hundred},
		{TraitType: "Clarity", Value: round1(res.Quality.Clarity), DisplayType: displayNumber, MaxValue: &hundred},
		{TraitType: "Movements", Value: res.Metrics.TotalMovements, DisplayType: displayNumber},
		{TraitType: "Unique Styles", Value: res.Metrics.UniqueStyles, DisplayType: displayNumber},
		{TraitType: "Complexity", Value: round1(res.Metrics.ComplexityScore * 100), DisplayType: displayBoost},
		{TraitType: "Duration", Value: round1(res.Duration), DisplayType: displayNumber},
	}
	if top := hardest(res.DetectedMovements); top != nil {
		attrs = append(attrs, Attribute{TraitType: "Peak Difficulty", Value: top.Difficulty.String()})
	}
	for _, s := range res.StyleDistribution {
		attrs = append(attrs, Attribute{
			TraitType:   terms.Title(string(s.Style)) + " Share",
			Value:       round1(s.Percentage),
			DisplayType: displayBoost,
		})
	}
	doc.Attributes = attrs
	return doc
}

func description(res model.AnalysisResult) string {
	if len(res.DetectedMovements) == 0 {
		return fmt.Sprintf("A %.1fs dance recording with no recognized movements.", res.Duration)
	}
	names := make([]string, 0, len(res.DetectedMovements))
	seen := make(map[string]bool)
	for _, m := range res.DetectedMovements {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return fmt.Sprintf("A %.1fs %s routine featuring %s. Overall quality %.1f/100.",
		res.Duration, strings.ToLower(terms.Title(string(res.PrimaryStyle))), strings.Join(names, ", "), res.Quality.Overall)
}

func hardest(movements []model.DanceMovement) *model.DanceMovement {
	var top *model.DanceMovement
	for i := range movements {
		if top == nil || movements[i].Difficulty > top.Difficulty {
			top = &movements[i]
		}
	}
	return top
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Write stores the document as indented JSON, replacing path atomically.
func Write(path string, doc Document) (err error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create metadata dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := os.Remove(tmp.Name()); rerr != nil {
				// Best-effort temp cleanup.
				_ = rerr
			}
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metadata: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace metadata: %w", err)
	}
	return nil
}
