package stats

import (
	"sort"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

// FocusMovements selects the lowest-confidence movements of a result,
// ties broken by start frame.
func FocusMovements(movements []model.DanceMovement, top int) []model.DanceMovement {
	if len(movements) == 0 {
		return nil
	}
	candidates := make([]model.DanceMovement, len(movements))
	copy(candidates, movements)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence == candidates[j].Confidence {
			return candidates[i].StartFrame < candidates[j].StartFrame
		}
		return candidates[i].Confidence < candidates[j].Confidence
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
