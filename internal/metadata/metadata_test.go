package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		VideoID:  "clip-7",
		Duration: 12.34,
		DetectedMovements: []model.DanceMovement{
			{Name: "Port de Bras", Style: model.StyleBallet, Difficulty: model.Intermediate},
			{Name: "Pirouette", Style: model.StyleBallet, Difficulty: model.Advanced},
			{Name: "Port de Bras", Style: model.StyleBallet, Difficulty: model.Beginner},
		},
		Quality:      model.QualityMetrics{Overall: 87.26, Technique: 82.9, Timing: 78.5, Expression: 74.1, Clarity: 87.26},
		PrimaryStyle: model.StyleBallet,
		StyleDistribution: []model.StyleStat{
			{Style: model.StyleBallet, Count: 3, Percentage: 100, AverageDifficulty: 2},
		},
		Metrics: model.DanceMetrics{TotalMovements: 3, UniqueStyles: 1, ComplexityScore: 0.3},
	}
}

func findAttr(t *testing.T, doc Document, trait string) Attribute {
	t.Helper()
	for _, a := range doc.Attributes {
		if a.TraitType == trait {
			return a
		}
	}
	t.Fatalf("attribute %q missing from %+v", trait, doc.Attributes)
	return Attribute{}
}

func TestBuild(t *testing.T) {
	doc := Build(sampleResult(), Options{Image: "ipfs://cid"})
	if doc.Name != "MoveMint: clip-7" {
		t.Fatalf("unexpected name %q", doc.Name)
	}
	if doc.Image != "ipfs://cid" {
		t.Fatalf("unexpected image %q", doc.Image)
	}
	if !strings.Contains(doc.Description, "Port de Bras, Pirouette.") {
		t.Fatalf("expected unique movement names in description, got %q", doc.Description)
	}

	if got := findAttr(t, doc, "Primary Style").Value; got != "Ballet" {
		t.Fatalf("unexpected primary style %v", got)
	}
	overall := findAttr(t, doc, "Overall Quality")
	if overall.Value != 87.3 || overall.DisplayType != displayNumber || overall.MaxValue == nil || *overall.MaxValue != 100 {
		t.Fatalf("unexpected overall attribute %+v", overall)
	}
	if got := findAttr(t, doc, "Movements").Value; got != 3 {
		t.Fatalf("unexpected movement count %v", got)
	}
	if got := findAttr(t, doc, "Peak Difficulty").Value; got != "Advanced" {
		t.Fatalf("unexpected peak difficulty %v", got)
	}
	share := findAttr(t, doc, "Ballet Share")
	if share.Value != 100.0 || share.DisplayType != displayBoost {
		t.Fatalf("unexpected share attribute %+v", share)
	}
	if got := findAttr(t, doc, "Complexity").Value; got != 30.0 {
		t.Fatalf("unexpected complexity %v", got)
	}
}

func TestBuildEmptyResult(t *testing.T) {
	doc := Build(model.AnalysisResult{VideoID: "empty", PrimaryStyle: model.StyleFreestyle}, Options{Name: "Custom"})
	if doc.Name != "Custom" {
		t.Fatalf("expected custom name, got %q", doc.Name)
	}
	for _, a := range doc.Attributes {
		if a.TraitType == "Peak Difficulty" || strings.HasSuffix(a.TraitType, " Share") {
			t.Fatalf("unexpected attribute %+v for empty result", a)
		}
	}
	if !strings.Contains(doc.Description, "no recognized movements") {
		t.Fatalf("unexpected description %q", doc.Description)
	}
}

func TestBuildDeterministic(t *testing.T) {
	if !reflect.DeepEqual(Build(sampleResult(), Options{}), Build(sampleResult(), Options{})) {
		t.Fatalf("expected identical documents")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clip.json")
	doc := Build(sampleResult(), Options{})
	if err := Write(path, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded struct {
		Name       string `json:"name"`
		Attributes []struct {
			TraitType   string `json:"trait_type"`
			DisplayType string `json:"display_type"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Name != doc.Name || len(decoded.Attributes) != len(doc.Attributes) {
		t.Fatalf("unexpected decoded document %+v", decoded)
	}
	if decoded.Attributes[0].TraitType != "Primary Style" || decoded.Attributes[0].DisplayType != "" {
		t.Fatalf("unexpected first attribute %+v", decoded.Attributes[0])
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be renamed away, got %d entries", len(entries))
	}
}
