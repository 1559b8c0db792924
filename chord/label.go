package chord

import (
	"sort"

	"github.com/jsphweid/chordmelody/pitch"
)

// Labels names the harmonic role of every pitch, lowest pitch first.
func Labels(ps []pitch.Pitch, root pitch.Pitch, q Quality) []string {
	sorted := clone(ps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	table, ok := labels[q]
	if !ok {
		table = labels[Major]
	}
	res := make([]string, 0, len(sorted))
	for _, p := range sorted {
		res = append(res, table[pitch.Semitones(root, p)])
	}
	return res
}

// Label names a single pitch against a root.
func Label(p pitch.Pitch, root pitch.Pitch, q Quality) string {
	return Labels([]pitch.Pitch{p}, root, q)[0]
}
