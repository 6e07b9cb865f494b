// Package pose loads pose-frame sequences and provides keypoint geometry.
package pose

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

// ErrEmptySequence is returned by Validate for a sequence without frames.
var ErrEmptySequence = errors.New("pose: sequence has no frames")

// LoadSequence decodes a sequence file. Pixel coordinates are normalized.
func LoadSequence(path string) (model.Sequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Sequence{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sequence file.
			_ = cerr
		}
	}()

	var seq model.Sequence
	if err := json.NewDecoder(file).Decode(&seq); err != nil {
		return model.Sequence{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(seq.VideoID) == "" {
		seq.VideoID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Normalize(seq), nil
}

// ListSequenceFiles returns the *.json files directly inside dir, sorted.
func ListSequenceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Normalize converts pixel coordinates into [0,1] units when the sequence
// declares its frame size. The input is not modified.
func Normalize(seq model.Sequence) model.Sequence {
	if seq.Width <= 0 || seq.Height <= 0 {
		return seq
	}
	out := model.Sequence{VideoID: seq.VideoID, Frames: make([]model.PoseFrame, len(seq.Frames))}
	for i, f := range seq.Frames {
		kps := make([]model.Keypoint, len(f.Keypoints))
		for j, kp := range f.Keypoints {
			kps[j] = model.Keypoint{
				Name:  kp.Name,
				X:     kp.X / seq.Width,
				Y:     kp.Y / seq.Height,
				Score: kp.Score,
			}
		}
		out.Frames[i] = model.PoseFrame{Timestamp: f.Timestamp, Keypoints: kps}
	}
	return out
}

// Validate checks that timestamps are non-negative and non-decreasing.
// The analyzer itself never validates; callers run this at the boundary.
func Validate(seq model.Sequence) error {
	if len(seq.Frames) == 0 {
		return ErrEmptySequence
	}
	prev := 0.0
	for i, f := range seq.Frames {
		if f.Timestamp < 0 {
			return fmt.Errorf("frame %d: negative timestamp %.1f", i, f.Timestamp)
		}
		if i > 0 && f.Timestamp < prev {
			return fmt.Errorf("frame %d: timestamp %.1f before previous %.1f", i, f.Timestamp, prev)
		}
		prev = f.Timestamp
	}
	return nil
}

// WriteSequence writes a sequence file atomically.
func WriteSequence(path string, seq model.Sequence) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create sequence dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "sequence-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp sequence: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("failed to encode sequence: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close sequence: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write sequence: %w", err)
	}
	return nil
}
