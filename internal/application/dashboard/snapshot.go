package dashboard

import (
	"time"

	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// The snapshot wire types live in pkg/types/dashboard so the SDK can share
// them without importing server packages.
type (
	State         = dtypes.State
	WidgetOptions = dtypes.WidgetOptions
	Snapshot      = dtypes.Snapshot
)

const (
	StateReady           = dtypes.StateReady
	StateAwaitingInput   = dtypes.StateAwaitingInput
	AwaitingInputMessage = dtypes.AwaitingInputMessage
)

// ComputeOptions parameterise Compute.
type ComputeOptions struct {
	StripPrefix bool
	TopN        int
}

// AwaitingInput returns the snapshot used when no dataset is present.
func AwaitingInput(at time.Time) *Snapshot {
	return &Snapshot{
		State:       StateAwaitingInput,
		Message:     AwaitingInputMessage,
		GeneratedAt: at,
	}
}

// Compute runs filter, aggregation and link building over ds.  It is a pure
// function of its arguments; ds is never modified.
func Compute(ds *patent.Dataset, sel FilterSelection, opts ComputeOptions) *Snapshot {
	effective := sel.Resolve(ds)
	view := Filter(ds, effective)

	years, undated := YearlyPublications(view)
	links := BuildLinks(view, opts.StripPrefix)

	return &Snapshot{
		State:           StateReady,
		TotalRecords:    ds.Len(),
		FilteredRecords: len(view),
		Options: &WidgetOptions{
			Stages:     ds.Stages(),
			Applicants: ds.Applicants(),
		},
		Selection: &dtypes.Selection{
			Stages:     effective.Stages,
			Applicants: effective.Applicants,
		},
		TopApplicants:          TopApplicants(view, opts.TopN),
		StageCounts:            StageCounts(view),
		YearlyPublications:     years,
		UndatedCount:           undated,
		UnknownIdentifierCount: countUnknown(links),
		StripPrefix:            opts.StripPrefix,
		Links:                  links,
	}
}

//Personal.AI order the ending
