// Package dashboard holds the wire types shared by the server and the Go SDK.
// It imports nothing outside the standard library.
package dashboard

import (
	"time"
)

// State tells the presentation layer what to render.
type State string

const (
	// StateReady means every aggregate and the link list are populated.
	StateReady State = "ready"
	// StateAwaitingInput means no dataset was supplied; show a prompt.
	StateAwaitingInput State = "awaiting_input"
)

// AwaitingInputMessage is the prompt shown while no dataset is available.
const AwaitingInputMessage = "Please upload a CSV file to begin."

// IdentifierCode is the J-PlatPat document-type segment of a link.
type IdentifierCode string

const (
	// IdentifierGranted covers patents (特許) and registered utility models (実登).
	IdentifierGranted IdentifierCode = "15"

	// IdentifierPublication covers unexamined (特開) and PCT national (特表)
	// publications.
	IdentifierPublication IdentifierCode = "11"

	// IdentifierUnknown is returned for any other prefix and for numbers
	// shorter than two characters.
	IdentifierUnknown IdentifierCode = "unknown"
)

// String implements fmt.Stringer.
func (c IdentifierCode) String() string { return string(c) }

// WidgetOptions are the values offered by the two filter widgets.
type WidgetOptions struct {
	Stages     []string `json:"stages"`
	Applicants []string `json:"applicants"`
}

// Selection is the effective stage and applicant sets a snapshot was
// computed with.
type Selection struct {
	Stages     []string `json:"stages"`
	Applicants []string `json:"applicants"`
}

// CategoryCount is one row of a category aggregate (applicant or stage).
type CategoryCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// YearCount is one row of the yearly publication histogram.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// LinkEntry is the outbound J-PlatPat link of one record.
type LinkEntry struct {
	// DisplayText is "{document_number} - {title}".
	DisplayText    string         `json:"display_text"`
	URL            string         `json:"url"`
	DocumentNumber string         `json:"document_number"`
	IdentifierCode IdentifierCode `json:"identifier_code"`
}

// Markdown renders the entry as a markdown link.
func (e LinkEntry) Markdown() string {
	return "[" + e.DisplayText + "](" + e.URL + ")"
}

// Snapshot is the complete output of one refresh.
type Snapshot struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`

	TotalRecords    int `json:"total_records"`
	FilteredRecords int `json:"filtered_records"`

	Options   *WidgetOptions `json:"options,omitempty"`
	Selection *Selection     `json:"selection,omitempty"`

	TopApplicants      []CategoryCount `json:"top_applicants"`
	StageCounts        []CategoryCount `json:"stage_counts"`
	YearlyPublications []YearCount     `json:"yearly_publications"`

	// UndatedCount is the number of filtered records left out of
	// YearlyPublications because their date could not be parsed.
	UndatedCount int `json:"undated_count"`

	// UnknownIdentifierCount is the number of links whose code is "unknown".
	UnknownIdentifierCount int `json:"unknown_identifier_count"`

	StripPrefix bool        `json:"strip_prefix"`
	Links       []LinkEntry `json:"links"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Ready reports whether the snapshot carries computed results.
func (s *Snapshot) Ready() bool { return s != nil && s.State == StateReady }

// UploadMeta describes a stored upload.
type UploadMeta struct {
	ID        string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	Encoding  string    `json:"encoding,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

//Personal.AI order the ending
