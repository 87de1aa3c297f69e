// Package patent holds the value objects of the KeyIP-Dashboard patent
// record context: the Record row, the immutable Dataset, the CSV schema
// contract, J-PlatPat identifier classification and publication-date
// parsing.  Nothing here performs I/O; loading lives in
// internal/infrastructure/dataset.
package patent

// ─────────────────────────────────────────────────────────────────────────────
// Record
// ─────────────────────────────────────────────────────────────────────────────

// Record is one row of the source table.
type Record struct {
	// Stage is the lifecycle stage label (e.g. 出願, 登録).
	Stage string `json:"stage"`

	// Applicant is the applicant / rights-holder name.
	Applicant string `json:"applicant"`

	// PublicationDate is kept verbatim; it may be empty or malformed.
	// Use PublicationYear to interpret it.
	PublicationDate string `json:"publication_date"`

	// DocumentNumber normally starts with a two-character type prefix
	// such as 特許 or 特開.
	DocumentNumber string `json:"document_number"`

	Title string `json:"title"`
}

// IdentifierCode classifies the record's document number.
func (r Record) IdentifierCode() IdentifierCode {
	return Classify(r.DocumentNumber)
}

// PublicationYear returns the calendar year of the publication date and
// false when the date is blank or unparsable.
func (r Record) PublicationYear() (int, bool) {
	t, ok := ParsePublicationDate(r.PublicationDate)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// ─────────────────────────────────────────────────────────────────────────────
// Dataset
// ─────────────────────────────────────────────────────────────────────────────

// Dataset is an ordered sequence of Records.  It is immutable once built:
// the constructor copies its input and Records returns a copy, so callers
// can never alter a Dataset shared by a refresh pass.
type Dataset struct {
	records []Record
}

// NewDataset builds a Dataset from records, preserving order.
func NewDataset(records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of records.  A nil Dataset has length zero.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.  It panics when i is out of range, like a
// slice index.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of the underlying rows.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Each calls fn for every record in order without copying the slice.
func (d *Dataset) Each(fn func(i int, r Record)) {
	if d == nil {
		return
	}
	for i, r := range d.records {
		fn(i, r)
	}
}

// Stages returns the distinct stage values in order of first appearance.
func (d *Dataset) Stages() []string {
	return d.distinct(func(r Record) string { return r.Stage })
}

// Applicants returns the distinct applicant values in order of first
// appearance.
func (d *Dataset) Applicants() []string {
	return d.distinct(func(r Record) string { return r.Applicant })
}

func (d *Dataset) distinct(key func(Record) string) []string {
	out := make([]string, 0)
	if d == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, r := range d.records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

//Personal.AI order the ending
