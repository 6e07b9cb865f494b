package stats

import (
	"sort"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

// TopStyles returns the N styles with the most stored movements.
func TopStyles(aggs []model.StyleAggregate, n int) []model.Style {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.StyleAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Style.Order() < items[j].Style.Order()
		}
		return items[i].Count > items[j].Count
	})
	n = min(n, len(items))
	out := make([]model.Style, n)
	for i := range out {
		out[i] = items[i].Style
	}
	return out
}
