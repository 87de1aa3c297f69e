package patent

// Column names of the source CSV.  They are a schema contract checked once
// at load time.
const (
	ColumnStage           = "ステージ"
	ColumnApplicant       = "出願人/権利者"
	ColumnPublicationDate = "公知日"
	ColumnDocumentNumber  = "文献番号"
	ColumnTitle           = "発明の名称"
)

// RequiredColumns lists every column a dataset must carry, in the order the
// loader reports them when missing.
func RequiredColumns() []string {
	return []string{
		ColumnStage,
		ColumnApplicant,
		ColumnPublicationDate,
		ColumnDocumentNumber,
		ColumnTitle,
	}
}

// MissingColumns returns the required columns absent from header, in
// RequiredColumns order.  An empty result means the header is acceptable.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range RequiredColumns() {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

//Personal.AI order the ending
