package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

func twoRecordDataset() *patent.Dataset {
	return patent.NewDataset([]patent.Record{
		{Stage: "出願", Applicant: "A社", PublicationDate: "2020-01-01", DocumentNumber: "特許0000001", Title: "T1"},
		{Stage: "登録", Applicant: "B社", PublicationDate: "bad-date", DocumentNumber: "実登0000002", Title: "T2"},
	})
}

// mixedDataset has 14 applicants so TopApplicants must truncate, plus ties.
func mixedDataset() *patent.Dataset {
	var recs []patent.Record
	stages := []string{"出願", "登録", "取下"}
	for i := 0; i < 14; i++ {
		applicant := fmt.Sprintf("社%02d", i)
		for j := 0; j <= i%4; j++ {
			recs = append(recs, patent.Record{
				Stage:           stages[(i+j)%len(stages)],
				Applicant:       applicant,
				PublicationDate: fmt.Sprintf("%d-06-01", 2015+(i+j)%5),
				DocumentNumber:  fmt.Sprintf("特開%d-%06d", 2015+i%5, i*10+j),
				Title:           "title",
			})
		}
	}
	recs = append(recs, patent.Record{Stage: "出願", Applicant: "社00", PublicationDate: "", DocumentNumber: "X", Title: "short"})
	return patent.NewDataset(recs)
}

func TestFilter_DefaultSelectionIsIdentity(t *testing.T) {
	for _, ds := range []*patent.Dataset{twoRecordDataset(), mixedDataset()} {
		view := Filter(ds, DefaultSelection(ds))
		assert.Equal(t, FilteredView(ds.Records()), view)

		view = Filter(ds, FilterSelection{})
		assert.Equal(t, FilteredView(ds.Records()), view, "nil selection means default")
	}
}

func TestFilter_SubsetAndMembership(t *testing.T) {
	ds := mixedDataset()
	sel := FilterSelection{Stages: []string{"出願", "取下"}, Applicants: []string{"社00", "社03", "社07", "nobody"}}

	view := Filter(ds, sel)
	require.NotEmpty(t, view)

	all := ds.Records()
	pos := 0
	for _, r := range view {
		assert.Contains(t, sel.Stages, r.Stage)
		assert.Contains(t, sel.Applicants, r.Applicant)
		for pos < len(all) && all[pos] != r {
			pos++
		}
		require.Less(t, pos, len(all), "view must be an ordered subsequence of the dataset")
		pos++
	}
}

func TestFilter_EmptySelectionSelectsNothing(t *testing.T) {
	ds := twoRecordDataset()
	assert.Empty(t, Filter(ds, FilterSelection{Stages: []string{}}))
	assert.Empty(t, Filter(ds, FilterSelection{Applicants: []string{}}))
}

func TestFilter_EmptyDataset(t *testing.T) {
	ds := patent.NewDataset(nil)
	view := Filter(ds, DefaultSelection(ds))
	assert.NotNil(t, view)
	assert.Empty(t, view)
}

func TestFilter_DoesNotAliasDataset(t *testing.T) {
	ds := twoRecordDataset()
	view := Filter(ds, FilterSelection{})
	view[0].Stage = "mutated"
	assert.Equal(t, "出願", ds.At(0).Stage)
}

func TestResolve(t *testing.T) {
	ds := twoRecordDataset()
	in := FilterSelection{Stages: []string{"登録"}}
	got := in.Resolve(ds)

	assert.Equal(t, []string{"登録"}, got.Stages)
	assert.Equal(t, []string{"A社", "B社"}, got.Applicants)
	assert.Nil(t, in.Applicants, "receiver untouched")
}

func TestResolve_BlankValue(t *testing.T) {
	t.Run("no blank cells selects nothing", func(t *testing.T) {
		ds := twoRecordDataset()
		got := FilterSelection{Stages: []string{""}}.Resolve(ds)

		assert.NotNil(t, got.Stages)
		assert.Empty(t, got.Stages)
		assert.Empty(t, Filter(ds, got))
	})

	t.Run("blank cells can be picked out", func(t *testing.T) {
		ds := patent.NewDataset([]patent.Record{
			{Stage: "出願", Applicant: "A社", DocumentNumber: "特許0000001", Title: "T1"},
			{Stage: "出願", Applicant: "", DocumentNumber: "特許0000002", Title: "T2"},
		})
		got := FilterSelection{Applicants: []string{""}}.Resolve(ds)

		assert.Equal(t, []string{""}, got.Applicants)
		view := Filter(ds, got)
		require.Len(t, view, 1)
		assert.Equal(t, "T2", view[0].Title)
	})
}

func TestTopApplicants_TruncatedAndNonIncreasing(t *testing.T) {
	ds := mixedDataset()
	top := TopApplicants(Filter(ds, FilterSelection{}), 0)

	require.Len(t, top, DefaultTopN)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
	// 社03/社07/社11 have four records each; ties keep first-appearance order.
	assert.Equal(t, "社03", top[0].Key)
	assert.Equal(t, "社07", top[1].Key)
	assert.Equal(t, "社11", top[2].Key)
}

func TestTopApplicants_Limit(t *testing.T) {
	view := Filter(mixedDataset(), FilterSelection{})
	assert.Len(t, TopApplicants(view, 3), 3)
	assert.Len(t, TopApplicants(Filter(twoRecordDataset(), FilterSelection{}), 10), 2)
	assert.Empty(t, TopApplicants(FilteredView{}, 10))
}

func TestStageCounts_SumEqualsView(t *testing.T) {
	ds := mixedDataset()
	for _, sel := range []FilterSelection{
		{},
		{Stages: []string{"出願"}},
		{Applicants: []string{"社01", "社02"}},
		{Stages: []string{}},
	} {
		view := Filter(ds, sel)
		sum := 0
		counts := StageCounts(view)
		for i, c := range counts {
			sum += c.Count
			if i > 0 {
				assert.GreaterOrEqual(t, counts[i-1].Count, c.Count)
			}
		}
		assert.Equal(t, len(view), sum)
	}
}

func TestYearlyPublications_StrictlyIncreasing(t *testing.T) {
	view := Filter(mixedDataset(), FilterSelection{})
	years, undated := YearlyPublications(view)

	require.NotEmpty(t, years)
	for i := 1; i < len(years); i++ {
		assert.Less(t, years[i-1].Year, years[i].Year)
	}
	total := undated
	for _, y := range years {
		total += y.Count
	}
	assert.Equal(t, len(view), total)
	assert.Equal(t, 1, undated)
}

func TestBuildLinks_OrderAndFormat(t *testing.T) {
	view := Filter(mixedDataset(), FilterSelection{})
	links := BuildLinks(view, false)

	require.Len(t, links, len(view))
	for i, l := range links {
		assert.Equal(t, view[i].DocumentNumber, l.DocumentNumber)
		assert.Equal(t, view[i].DocumentNumber+" - "+view[i].Title, l.DisplayText)
	}
	last := links[len(links)-1]
	assert.Equal(t, patent.IdentifierUnknown, last.IdentifierCode)
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-X/unknown/ja", last.URL)
}

func TestLinkEntry_Markdown(t *testing.T) {
	e := LinkEntry{DisplayText: "特許0000001 - T1", URL: "https://example.invalid/x"}
	assert.Equal(t, "[特許0000001 - T1](https://example.invalid/x)", e.Markdown())
}

func TestCompute_TwoRecordScenario(t *testing.T) {
	ds := twoRecordDataset()
	snap := Compute(ds, FilterSelection{}, ComputeOptions{StripPrefix: true})

	assert.Equal(t, StateReady, snap.State)
	assert.True(t, snap.Ready())
	assert.Equal(t, 2, snap.TotalRecords)
	assert.Equal(t, 2, snap.FilteredRecords)

	assert.ElementsMatch(t, []CategoryCount{{Key: "出願", Count: 1}, {Key: "登録", Count: 1}}, snap.StageCounts)
	assert.Equal(t, []YearCount{{Year: 2020, Count: 1}}, snap.YearlyPublications)
	assert.Equal(t, 1, snap.UndatedCount)
	assert.Equal(t, 0, snap.UnknownIdentifierCount)

	require.Len(t, snap.Links, 2)
	assert.Equal(t, "特許0000001 - T1", snap.Links[0].DisplayText)
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-0000001/15/ja", snap.Links[0].URL)
	assert.Equal(t, "実登0000002 - T2", snap.Links[1].DisplayText)
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-0000002/15/ja", snap.Links[1].URL)

	assert.Equal(t, &WidgetOptions{Stages: []string{"出願", "登録"}, Applicants: []string{"A社", "B社"}}, snap.Options)
	assert.Equal(t, &dtypes.Selection{Stages: []string{"出願", "登録"}, Applicants: []string{"A社", "B社"}}, snap.Selection)
}

func TestCompute_PassThroughVariant(t *testing.T) {
	snap := Compute(twoRecordDataset(), FilterSelection{}, ComputeOptions{StripPrefix: false})
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-特許0000001/15/ja", snap.Links[0].URL)
	assert.False(t, snap.StripPrefix)
}

func TestCompute_DoesNotMutateDataset(t *testing.T) {
	ds := twoRecordDataset()
	before := ds.Records()
	_ = Compute(ds, FilterSelection{Stages: []string{"登録"}}, ComputeOptions{StripPrefix: true})
	assert.Equal(t, before, ds.Records())
}

func TestCompute_EmptyView(t *testing.T) {
	snap := Compute(twoRecordDataset(), FilterSelection{Stages: []string{}}, ComputeOptions{})
	assert.Equal(t, 0, snap.FilteredRecords)
	assert.NotNil(t, snap.TopApplicants)
	assert.NotNil(t, snap.StageCounts)
	assert.NotNil(t, snap.YearlyPublications)
	assert.NotNil(t, snap.Links)
}

//Personal.AI order the ending
