package phrases

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Duplicate reports a phrase that appears more than once, with the indices of
// every occurrence.
type Duplicate struct {
	Phrase  string
	Indices []int
}

// NearDuplicate is a pair of distinct phrases whose Jaro-Winkler similarity
// reached the configured cutoff.
type NearDuplicate struct {
	A, B       string
	IndexA     int
	IndexB     int
	Similarity float64
}

// CheckReport summarises a phrase list lint. It never modifies the list.
type CheckReport struct {
	Total          int
	Duplicates     []Duplicate
	NearDuplicates []NearDuplicate
}

// Check finds exact duplicates and near-duplicate pairs. Comparison is case
// insensitive; pairs are reported in index order.
func Check(phrases []string, cutoff float64) CheckReport {
	report := CheckReport{Total: len(phrases)}

	groups := make(map[string]int)
	var all []Duplicate
	var uniq []int
	for i, p := range phrases {
		key := strings.ToLower(strings.TrimSpace(p))
		if g, ok := groups[key]; ok {
			all[g].Indices = append(all[g].Indices, i)
			continue
		}
		groups[key] = len(all)
		all = append(all, Duplicate{Phrase: p, Indices: []int{i}})
		uniq = append(uniq, i)
	}
	for _, d := range all {
		if len(d.Indices) > 1 {
			report.Duplicates = append(report.Duplicates, d)
		}
	}

	if cutoff <= 0 || cutoff > 1 {
		return report
	}
	for x := 0; x < len(uniq); x++ {
		a := strings.ToLower(phrases[uniq[x]])
		for y := x + 1; y < len(uniq); y++ {
			b := strings.ToLower(phrases[uniq[y]])
			sim := matchr.JaroWinkler(a, b, false)
			if sim >= cutoff {
				report.NearDuplicates = append(report.NearDuplicates, NearDuplicate{
					A:          phrases[uniq[x]],
					B:          phrases[uniq[y]],
					IndexA:     uniq[x],
					IndexB:     uniq[y],
					Similarity: sim,
				})
			}
		}
	}
	return report
}
