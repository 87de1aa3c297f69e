package cli

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	httpserver "github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http"
	"github.com/turtacn/KeyIP-Dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Dashboard/internal/testutil"
	"github.com/turtacn/KeyIP-Dashboard/pkg/client"
)

func newDashboardServer(t *testing.T, csv string) string {
	t.Helper()
	log := testutil.NewMockLogger()
	svc := dashboard.NewService(dataset.NewLoader(dataset.LoaderOptions{}, log), log)
	path := testutil.WriteFile(t, "server.csv", csv)
	srv := httptest.NewServer(httpserver.NewRouter(httpserver.RouterConfig{
		DashboardHandler: handlers.NewDashboardHandler(svc, handlers.DashboardHandlerConfig{
			Source: dataset.NewFileSource(path, ""), StripPrefix: true,
		}, log),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRemote_Summary(t *testing.T) {
	addr := newDashboardServer(t, testutil.SampleCSV)

	out, err := execute(t, nil, "summary", "--server", addr, "--applicant", "B社", "-o", "json")
	require.NoError(t, err)
	var res SummaryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 6, res.TotalRecords)
	assert.Equal(t, 2, res.FilteredRecords)
}

func TestRemote_LinksStripOverride(t *testing.T) {
	addr := newDashboardServer(t, testutil.TwoRecordCSV)

	out, err := execute(t, nil, "links", "--server", addr, "--strip-prefix=false", "--stage", "出願")
	require.NoError(t, err)
	assert.Equal(t, "- [特許0000001 - T1](https://www.j-platpat.inpit.go.jp/c1801/PU/JP-特許0000001/15/ja)\n", out)
}

func TestRemote_ValidateMissingColumn(t *testing.T) {
	addr := newDashboardServer(t, "ステージ,出願人/権利者\n出願,A社\n")

	out, err := execute(t, nil, "validate", "--server", addr, "-o", "json")
	require.Error(t, err)
	var rep ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.False(t, rep.Valid)
	assert.Equal(t, "DS_001", rep.Code)
}

func TestRemote_LocalFileWins(t *testing.T) {
	path := testutil.WriteFile(t, "local.csv", testutil.TwoRecordCSV)
	out, err := execute(t, nil, "validate", "--server", "http://127.0.0.1:1", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 2 records")
}

func TestClientLogger_ForwardsToStructuredLogger(t *testing.T) {
	log := testutil.NewMockLogger()
	var l client.Logger = clientLogger{l: log.Named("client")}

	l.Infof("retrying in %d seconds", 3)
	l.Errorf("giving up on %s", "/api/v1/dashboard")
	assert.True(t, log.HasMessage("info", "retrying in 3 seconds"))
	assert.True(t, log.HasMessage("error", "giving up on /api/v1/dashboard"))
}

//Personal.AI order the ending
