package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Dashboard/internal/domain/patent"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/testutil"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, src dataset.Source) (*patent.Dataset, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Dataset), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) ObserveRefresh(source, status string, elapsed time.Duration) {
	m.Called(source, status)
}

func (m *mockMetrics) ObserveSnapshot(source string, snap *Snapshot) {
	m.Called(source, snap)
}

var fixedNow = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func TestService_Refresh_Ready(t *testing.T) {
	loader := new(mockLoader)
	metrics := new(mockMetrics)
	logger := testutil.NewMockLogger()
	src := dataset.NewFileSource("patents.csv", "")

	loader.On("Load", mock.Anything, src).Return(twoRecordDataset(), nil)
	metrics.On("ObserveRefresh", dataset.KindFile, "ok").Return()
	metrics.On("ObserveSnapshot", dataset.KindFile, mock.AnythingOfType("*dashboard.Snapshot")).Return()

	svc := NewService(loader, logger, WithMetrics(metrics), WithClock(func() time.Time { return fixedNow }))
	snap, err := svc.Refresh(context.Background(), &RefreshInput{Source: src, StripPrefix: true})

	require.NoError(t, err)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, dataset.KindFile, snap.Source)
	assert.Equal(t, fixedNow, snap.GeneratedAt)
	assert.Equal(t, "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-0000001/15/ja", snap.Links[0].URL)
	assert.True(t, logger.HasMessage("debug", "refresh completed"))

	loader.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestService_Refresh_NilSourceAwaitsInput(t *testing.T) {
	loader := new(mockLoader)
	svc := NewService(loader, nil, WithClock(func() time.Time { return fixedNow }))

	for _, in := range []*RefreshInput{nil, {}} {
		snap, err := svc.Refresh(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, StateAwaitingInput, snap.State)
		assert.Equal(t, AwaitingInputMessage, snap.Message)
		assert.False(t, snap.Ready())
		assert.Nil(t, snap.Links)
	}
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestService_Refresh_NoInputFromSource(t *testing.T) {
	loader := new(mockLoader)
	src := dataset.NewUploadSource("", nil, "")
	loader.On("Load", mock.Anything, src).Return(nil, dataset.ErrNoInput)

	snap, err := NewService(loader, nil).Refresh(context.Background(), &RefreshInput{Source: src})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingInput, snap.State)
}

func TestService_Refresh_LoadFailureHalts(t *testing.T) {
	loader := new(mockLoader)
	metrics := new(mockMetrics)
	logger := testutil.NewMockLogger()
	src := dataset.NewFileSource("patents.csv", "")

	loadErr := errors.New(errors.ErrCodeDatasetColumnMissing, "required column missing").WithDetail("公知日")
	loader.On("Load", mock.Anything, src).Return(nil, loadErr)
	metrics.On("ObserveRefresh", dataset.KindFile, "error").Return()

	snap, err := NewService(loader, logger, WithMetrics(metrics)).
		Refresh(context.Background(), &RefreshInput{Source: src})

	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetColumnMissing))

	msg, ok := logger.Find("warn", "dataset load failed")
	require.True(t, ok)
	code, _ := msg.Field("code")
	assert.Equal(t, "DS_001", code)

	metrics.AssertExpectations(t)
	metrics.AssertNotCalled(t, "ObserveSnapshot", mock.Anything, mock.Anything)
}

func TestService_Refresh_Cancelled(t *testing.T) {
	loader := new(mockLoader)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(loader, nil).Refresh(ctx, &RefreshInput{Source: dataset.NewFileSource("x.csv", "")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestService_Refresh_SelectionAndTopN(t *testing.T) {
	loader := new(mockLoader)
	src := dataset.NewFileSource("patents.csv", "")
	loader.On("Load", mock.Anything, src).Return(mixedDataset(), nil)

	snap, err := NewService(loader, nil).Refresh(context.Background(), &RefreshInput{
		Source:    src,
		Selection: FilterSelection{Stages: []string{"登録"}},
		TopN:      3,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(snap.TopApplicants), 3)
	require.Len(t, snap.StageCounts, 1)
	assert.Equal(t, "登録", snap.StageCounts[0].Key)
	assert.Equal(t, []string{"登録"}, snap.Selection.Stages)
	assert.Len(t, snap.Options.Stages, 3)
}

//Personal.AI order the ending
