package dashboard

import (
	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// LinkEntry is the outbound J-PlatPat link of one record.
type LinkEntry = dtypes.LinkEntry

// BuildLinks returns one LinkEntry per record of view, in view order.
func BuildLinks(view FilteredView, stripPrefix bool) []LinkEntry {
	out := make([]LinkEntry, 0, len(view))
	for _, r := range view {
		url, code := patent.LinkFor(r.DocumentNumber, stripPrefix)
		out = append(out, LinkEntry{
			DisplayText:    r.DocumentNumber + " - " + r.Title,
			URL:            url,
			DocumentNumber: r.DocumentNumber,
			IdentifierCode: code,
		})
	}
	return out
}

// countUnknown returns how many entries could not be classified.
func countUnknown(links []LinkEntry) int {
	n := 0
	for _, l := range links {
		if l.IdentifierCode == patent.IdentifierUnknown {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
