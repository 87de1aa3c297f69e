package cli

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/testutil"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

func TestSummary_Text(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.TwoRecordCSV)
	out, err := execute(t, nil, "summary", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Records: 2 of 2")
	assert.Contains(t, out, "  A社: 1\n")
	assert.Contains(t, out, "  登録: 1\n")
	assert.Contains(t, out, "  2020: 1\n")
	assert.Contains(t, out, "(undated: 1)")
}

func TestSummary_SelectionFlags(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.SampleCSV)

	out, err := execute(t, nil, "summary", "--file", path, "--stage", "出願", "--applicant", "B社", "-o", "json")
	require.NoError(t, err)
	var res SummaryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.FilteredRecords)
	assert.Equal(t, []dashboard.YearCount{{Year: 2020, Count: 1}, {Year: 2021, Count: 1}}, res.YearlyPublications)

	out, err = execute(t, nil, "summary", "--file", path, "--stage=", "-o", "json")
	require.NoError(t, err)
	res = SummaryResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0, res.FilteredRecords)
	assert.Empty(t, res.TopApplicants)
	assert.Empty(t, res.YearlyPublications)
}

func TestSummary_ApplicantWithComma(t *testing.T) {
	path := testutil.WriteFile(t, "comma.csv", testutil.CSV(testutil.DatasetHeader,
		`出願,"Canon, Inc.",2020-01-01,特許0000001,T1`,
		`登録,B社,2021-01-01,実登0000002,T2`,
	))

	out, err := execute(t, nil, "summary", "--file", path, "--applicant", "Canon, Inc.", "-o", "json")
	require.NoError(t, err)
	var res SummaryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.FilteredRecords)
	assert.Equal(t, []dashboard.CategoryCount{{Key: "Canon, Inc.", Count: 1}}, res.TopApplicants)

	out, err = execute(t, nil, "summary", "--file", path, "--applicant", "Canon, Inc.", "--applicant", "B社", "-o", "json")
	require.NoError(t, err)
	res = SummaryResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.FilteredRecords)
}

func TestSummary_Table(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.SampleCSV)
	out, err := execute(t, nil, "summary", "--file", path, "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "Top applicants\n出願人/権利者  count\n")
	assert.Contains(t, out, "Publications per year\n")
	assert.Contains(t, out, "undated")
}

func TestSummary_NoDataset(t *testing.T) {
	out, err := execute(t, nil, "summary")
	require.NoError(t, err)
	assert.Equal(t, dashboard.AwaitingInputMessage+"\n", out)
}

func TestSummary_ShiftJIS(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String(testutil.TwoRecordCSV)
	require.NoError(t, err)
	path := testutil.WriteFile(t, "sjis.csv", sjis)

	out, err := execute(t, nil, "summary", "--file", path, "--encoding", "shift_jis")
	require.NoError(t, err)
	assert.Contains(t, out, "  B社: 1\n")
}

func TestLinks_Markdown(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.TwoRecordCSV)
	out, err := execute(t, nil, "links", "--file", path)
	require.NoError(t, err)

	assert.Equal(t,
		"- [特許0000001 - T1](https://www.j-platpat.inpit.go.jp/c1801/PU/JP-0000001/15/ja)\n"+
			"- [実登0000002 - T2](https://www.j-platpat.inpit.go.jp/c1801/PU/JP-0000002/15/ja)\n",
		out)
}

func TestLinks_KeepPrefixAndUnknown(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.SampleCSV)
	out, err := execute(t, nil, "links", "--file", path, "--strip-prefix=false", "--applicant", "D社", "-o", "json")
	require.NoError(t, err)

	var res LinksResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-意匠0000005/unknown/ja", res.Links[0].URL)
}

func TestLinks_Table(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.SampleCSV)
	out, err := execute(t, nil, "links", "--file", path, "--stage", "登録", "-o", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "特許6000001"))
	assert.True(t, strings.HasSuffix(lines[3], "JP-3200003/15/ja"))
}

func TestValidate_OK(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.SampleCSV)
	out, err := execute(t, nil, "validate", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "OK: 6 records, 3 stages, 4 applicants, 1 undated, 1 unknown identifiers\n", out)
}

func TestValidate_MissingColumn(t *testing.T) {
	path := testutil.WriteFile(t, "p.csv", testutil.CSV("ステージ,出願人/権利者,公知日", "出願,A社,2020-01-01"))
	out, err := execute(t, nil, "validate", "--file", path, "-o", "json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetColumnMissing))

	var rep ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.False(t, rep.Valid)
	assert.Equal(t, errors.ErrCodeDatasetColumnMissing.String(), rep.Code)
	assert.Contains(t, rep.Error, "文献番号")
}

func TestValidate_NoDataset(t *testing.T) {
	_, err := execute(t, nil, "validate")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestFileAndObjectAreExclusive(t *testing.T) {
	_, err := execute(t, nil, "links", "--file", "a.csv", "--object", "b.csv")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestPublishThenReadObject(t *testing.T) {
	store := newMemoryObjectStore()
	opts := []Option{WithObjectStoreFactory(store.factory())}
	path := testutil.WriteFile(t, "patents.csv", testutil.SampleCSV)

	out, err := execute(t, opts, "publish", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "OK: published 6 records ("+strconv.Itoa(len(testutil.SampleCSV))+" bytes) to datasets/patents.csv\n", out)
	assert.True(t, store.closed)
	assert.Equal(t, testutil.SampleCSV, string(store.objects["datasets/patents.csv"]))

	out, err = execute(t, opts, "validate", "--object", "patents.csv", "-o", "json")
	require.NoError(t, err)
	var rep ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Valid)
	assert.Equal(t, "object", rep.Source)
	assert.Equal(t, 6, rep.Records)
}

func TestPublish_RejectsInvalidDataset(t *testing.T) {
	store := newMemoryObjectStore()
	path := testutil.WriteFile(t, "bad.csv", "a,b\n1,2\n")

	_, err := execute(t, []Option{WithObjectStoreFactory(store.factory())}, "publish", "--file", path, "--key", "bad.csv")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetColumnMissing))
	assert.Empty(t, store.objects)
}

func TestObject_NotFound(t *testing.T) {
	store := newMemoryObjectStore()
	_, err := execute(t, []Option{WithObjectStoreFactory(store.factory())}, "summary", "--object", "missing.csv")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

//Personal.AI order the ending
