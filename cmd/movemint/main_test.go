package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

func validAnalyzeConfig() model.AnalyzeConfig {
	return model.AnalyzeConfig{
		MinConfidence:  0.1,
		ArmRaiseMargin: 0.03,
		KneeAngle:      140,
		JumpThreshold:  0.15,
		SpinThreshold:  0.3,
		LegLiftMargin:  0.1,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validAnalyzeConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*model.AnalyzeConfig)
	}{
		{name: "style hint", mutate: func(c *model.AnalyzeConfig) { c.StyleHint = "polka" }},
		{name: "min confidence", mutate: func(c *model.AnalyzeConfig) { c.MinConfidence = 1.5 }},
		{name: "knee angle", mutate: func(c *model.AnalyzeConfig) { c.KneeAngle = 180 }},
		{name: "jump", mutate: func(c *model.AnalyzeConfig) { c.JumpThreshold = 0 }},
		{name: "spin", mutate: func(c *model.AnalyzeConfig) { c.SpinThreshold = -1 }},
		{name: "leg lift", mutate: func(c *model.AnalyzeConfig) { c.LegLiftMargin = 0 }},
	}
	for _, tt := range tests {
		cfg := validAnalyzeConfig()
		tt.mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var words, other int
	cmd.Flags().IntVar(&words, "words", 1, "")
	cmd.Flags().IntVar(&other, "other", 1, "")
	if err := cmd.Flags().Set("words", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fromFile := 3
	applyIntConfig(cmd, "words", &words, &fromFile)
	applyIntConfig(cmd, "other", &other, &fromFile)
	if words != 7 {
		t.Fatalf("expected explicit flag to win, got %d", words)
	}
	if other != 3 {
		t.Fatalf("expected config value for unset flag, got %d", other)
	}
	applyIntConfig(cmd, "other", &other, nil)
	if other != 3 {
		t.Fatalf("expected nil config value to be ignored")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/data/movemint.db"); got != filepath.Join(home, "data", "movemint.db") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandHome("/abs/movemint.db"); got != "/abs/movemint.db" {
		t.Fatalf("expected absolute path untouched, got %q", got)
	}
}

func TestSampleThenAnalyzeJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "demo.json")

	root := newRootCmd()
	root.SetArgs([]string{"sample", path, "--seed", "3"})
	if err := root.Execute(); err != nil {
		t.Fatalf("sample: %v", err)
	}

	root = newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", path, "--json", "--no-store"})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("{")) {
		t.Fatalf("expected JSON output, got %q", out.String())
	}
}
