package dataset

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// DefaultEncoding is used when neither the loader nor the source names one.
const DefaultEncoding = "utf-8"

// ctxCheckEvery is how many rows are parsed between cancellation checks.
const ctxCheckEvery = 1024

// LoaderOptions configure a Loader.
type LoaderOptions struct {
	// Encoding is a WHATWG label (utf-8, shift_jis, euc-jp, ...).
	Encoding string
}

// Loader parses patent CSV tables.  It is safe for concurrent use.
type Loader struct {
	encoding string
	logger   logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	enc := strings.TrimSpace(opts.Encoding)
	if enc == "" {
		enc = DefaultEncoding
	}
	return &Loader{encoding: enc, logger: logger.Named("dataset")}
}

// Load opens src and parses it.  ErrNoInput is passed through unchanged so
// callers can tell "nothing to load" from a load failure; every other error
// is an *errors.AppError with a DS_* or OBJ_* code.
func (l *Loader) Load(ctx context.Context, src Source) (*patent.Dataset, error) {
	if src == nil {
		return nil, ErrNoInput
	}
	rc, err := src.Open(ctx)
	if err != nil {
		if stderrors.Is(err, ErrNoInput) {
			return nil, err
		}
		if errors.GetCode(err) == errors.CodeUnknown {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "open dataset").WithDetail(src.Name())
		}
		return nil, err
	}
	defer rc.Close()

	enc := l.encoding
	if h, ok := src.(EncodingHint); ok && strings.TrimSpace(h.Encoding()) != "" {
		enc = h.Encoding()
	}

	ds, err := l.Parse(ctx, rc, enc)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("dataset loaded",
		logging.String("source", src.Kind()),
		logging.String("name", src.Name()),
		logging.String("encoding", enc),
		logging.Int("records", ds.Len()))
	return ds, nil
}

// Parse decodes r with the named encoding and builds a Dataset.  The header
// row must carry every column of patent.RequiredColumns; headers are
// whitespace-trimmed and NFKC-normalised first, so a full-width slash
// matches.  Extra columns are ignored and short rows read as blank cells.
func (l *Loader) Parse(ctx context.Context, r io.Reader, encoding string) (*patent.Dataset, error) {
	decoded, err := decodingReader(r, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeDatasetParseFailed, "dataset is empty")
	}
	if err != nil {
		return nil, wrapReadErr(err)
	}
	for i, h := range header {
		header[i] = normalizeHeader(h)
	}
	if missing := patent.MissingColumns(header); len(missing) > 0 {
		return nil, errors.ColumnsMissing(missing...)
	}
	idx := columnIndex(header)

	var records []patent.Record
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeTimeout, "dataset parse cancelled")
			}
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadErr(err)
		}
		records = append(records, patent.Record{
			Stage:           cell(row, idx[patent.ColumnStage]),
			Applicant:       cell(row, idx[patent.ColumnApplicant]),
			PublicationDate: cell(row, idx[patent.ColumnPublicationDate]),
			DocumentNumber:  cell(row, idx[patent.ColumnDocumentNumber]),
			Title:           cell(row, idx[patent.ColumnTitle]),
		})
	}
	return patent.NewDataset(records), nil
}

// decodingReader converts r to UTF-8.  A byte-order mark, if present,
// overrides the label and is removed.
func decodingReader(r io.Reader, label string) (io.Reader, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetEncoding, "unsupported encoding").WithDetail(label)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

func normalizeHeader(h string) string {
	return norm.NFKC.String(strings.TrimSpace(h))
}

// columnIndex maps each header name to its first position.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func wrapReadErr(err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.Wrap(err, errors.ErrCodeDatasetParseFailed, "malformed csv")
	}
	return errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read dataset")
}

//Personal.AI order the ending
