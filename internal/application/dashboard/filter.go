package dashboard

import (
	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
)

// FilterSelection is the pair of allowed value sets chosen by the
// presentation layer.
//
// A nil slice means "default": every distinct value observed in the Dataset.
// A non-nil empty slice selects nothing, the same as clearing a multiselect.
type FilterSelection struct {
	Stages     []string `json:"stages"`
	Applicants []string `json:"applicants"`
}

// FilteredView is the subsequence of a Dataset kept by a FilterSelection.
// It is rebuilt on every pass and never shares backing storage with the
// Dataset.
type FilteredView []patent.Record

// DefaultSelection selects every distinct stage and applicant of ds, in
// order of first appearance.
func DefaultSelection(ds *patent.Dataset) FilterSelection {
	return FilterSelection{
		Stages:     ds.Stages(),
		Applicants: ds.Applicants(),
	}
}

// Resolve replaces nil fields of sel with the corresponding defaults of ds.
// A blank value in an explicit field is kept only when ds has records with
// that field blank, so "stage=" alone selects nothing on a dataset without
// blank stages.  The receiver is not modified.
func (sel FilterSelection) Resolve(ds *patent.Dataset) FilterSelection {
	stages, applicants := ds.Stages(), ds.Applicants()
	out := FilterSelection{
		Stages:     explicitValues(sel.Stages, stages),
		Applicants: explicitValues(sel.Applicants, applicants),
	}
	if sel.Stages == nil {
		out.Stages = stages
	}
	if sel.Applicants == nil {
		out.Applicants = applicants
	}
	return out
}

func explicitValues(values, options []string) []string {
	if values == nil {
		return nil
	}
	blankOption := false
	for _, o := range options {
		if o == "" {
			blankOption = true
			break
		}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" && !blankOption {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Filter keeps every record whose stage is an allowed stage and whose
// applicant is an allowed applicant, in Dataset order.  An empty Dataset
// yields an empty view.
func Filter(ds *patent.Dataset, sel FilterSelection) FilteredView {
	stages := toSet(sel.Stages)
	applicants := toSet(sel.Applicants)

	view := make(FilteredView, 0, ds.Len())
	ds.Each(func(_ int, r patent.Record) {
		if !stages.allows(r.Stage) || !applicants.allows(r.Applicant) {
			return
		}
		view = append(view, r)
	})
	return view
}

// valueSet is a membership set where nil means "allow everything".
type valueSet map[string]struct{}

func toSet(values []string) valueSet {
	if values == nil {
		return nil
	}
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

//Personal.AI order the ending
