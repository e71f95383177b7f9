package strip

import (
	"math"
	"sort"
)

// clusterIndices groups point indices by proximity along one axis and
// returns the groups ordered along it. The split threshold adapts to the
// gap distribution between sorted neighbors: when the largest gap exceeds
// spread times the smallest, the threshold is the mean of the two, which
// separates tight packs across a wide break. Otherwise it is frac of the
// smallest gap, so evenly spaced points each form their own group.
func clusterIndices(xs []float64, spread, frac float64) [][]int {
	if len(xs) == 0 {
		return nil
	}

	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return xs[order[i]] < xs[order[j]] })
	if len(order) == 1 {
		return [][]int{order}
	}

	minGap := math.Inf(1)
	maxGap := 0.0
	for i := 1; i < len(order); i++ {
		g := xs[order[i]] - xs[order[i-1]]
		if g < minGap {
			minGap = g
		}
		if g > maxGap {
			maxGap = g
		}
	}

	threshold := frac * minGap
	if maxGap > spread*minGap {
		threshold = (minGap + maxGap) / 2
	}

	groups := [][]int{{order[0]}}
	for i := 1; i < len(order); i++ {
		if xs[order[i]]-xs[order[i-1]] > threshold {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], order[i])
	}
	return groups
}
