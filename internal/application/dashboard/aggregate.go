package dashboard

import (
	"sort"

	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// DefaultTopN is the number of applicants kept by TopApplicants when the
// caller passes a non-positive limit.
const DefaultTopN = 10

type (
	CategoryCount = dtypes.CategoryCount
	YearCount     = dtypes.YearCount
)

// countBy tallies key over view and returns the counts sorted by count
// descending.  Equal counts keep the order in which the key was first seen.
func countBy(view FilteredView, key func(i int) string) []CategoryCount {
	index := make(map[string]int)
	out := make([]CategoryCount, 0)
	for i := range view {
		k := key(i)
		if pos, ok := index[k]; ok {
			out[pos].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, CategoryCount{Key: k, Count: 1})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}

// TopApplicants returns at most n applicants with the most records in view.
func TopApplicants(view FilteredView, n int) []CategoryCount {
	if n <= 0 {
		n = DefaultTopN
	}
	counts := countBy(view, func(i int) string { return view[i].Applicant })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// StageCounts returns the number of records per stage.  The values sum to
// len(view).
func StageCounts(view FilteredView) []CategoryCount {
	return countBy(view, func(i int) string { return view[i].Stage })
}

// YearlyPublications groups view by publication year, ascending.  Records
// whose date is blank or unparsable are left out of the histogram and
// reported through undated instead.
func YearlyPublications(view FilteredView) (years []YearCount, undated int) {
	perYear := make(map[int]int)
	for _, r := range view {
		y, ok := r.PublicationYear()
		if !ok {
			undated++
			continue
		}
		perYear[y]++
	}

	years = make([]YearCount, 0, len(perYear))
	for y, c := range perYear {
		years = append(years, YearCount{Year: y, Count: c})
	}
	sort.Slice(years, func(a, b int) bool { return years[a].Year < years[b].Year })
	return years, undated
}

//Personal.AI order the ending
