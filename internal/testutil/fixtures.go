package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DatasetHeader is the canonical header line of a patent CSV.
const DatasetHeader = "ステージ,出願人/権利者,公知日,文献番号,発明の名称"

// TwoRecordCSV is the smallest dataset exercising both a good and a bad
// publication date.
const TwoRecordCSV = DatasetHeader + "\n" +
	"出願,A社,2020-01-01,特許0000001,T1\n" +
	"登録,B社,bad-date,実登0000002,T2\n"

// SampleCSV is a richer dataset covering every identifier code.
const SampleCSV = DatasetHeader + "\n" +
	"出願,A社,2019-05-10,特開2019-000101,発光素子\n" +
	"登録,A社,2020-01-01,特許6000001,有機EL材料\n" +
	"出願,B社,2020/07/15,特表2020-500002,表示装置\n" +
	"登録,C社,,実登3200003,照明器具\n" +
	"出願,B社,2021年3月1日,特開2021-000104,製造方法\n" +
	"取下,D社,2021-12-31,意匠0000005,その他\n"

// CSV joins a header and rows into CSV text with a trailing newline.
func CSV(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

// WriteFile writes content under t.TempDir() and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

//Personal.AI order the ending
