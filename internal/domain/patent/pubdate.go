package patent

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// publicationDateLayouts are tried in order.  Full-width digits and
// separators are folded to ASCII by NFKC before matching, so ２０２０／０１／０１
// is accepted too.
var publicationDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01",
	"2006/01",
}

// ParsePublicationDate interprets a raw publication-date cell.  Blank and
// malformed values report false; they never produce an error because a bad
// date only affects its own record.
func ParsePublicationDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publicationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

//Personal.AI order the ending
