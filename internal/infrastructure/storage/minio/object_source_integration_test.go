//go:build integration

package minio

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/testutil"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

func setupMinIO(t *testing.T) *MinIOClient {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "keyipdash",
			"MINIO_ROOT_PASSWORD": "keyipdash-secret",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	client, err := NewMinIOClient(&MinIOConfig{
		Endpoint:        fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKeyID:     "keyipdash",
		SecretAccessKey: "keyipdash-secret",
		Bucket:          "datasets",
		CreateBucket:    true,
	}, testutil.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestObjectSource_EndToEnd(t *testing.T) {
	client := setupMinIO(t)
	ctx := context.Background()

	require.NoError(t, client.PutObject(ctx, "datasets", "sample.csv",
		strings.NewReader(testutil.SampleCSV), int64(len(testutil.SampleCSV)), "text/csv"))

	src := dataset.NewObjectSource(client, "datasets", "sample.csv", "")
	require.NoError(t, dataset.NewSourceChecker(src).Check(ctx))

	svc := dashboard.NewService(dataset.NewLoader(dataset.LoaderOptions{}, nil), testutil.NewMockLogger())
	snap, err := svc.Refresh(ctx, &dashboard.RefreshInput{Source: src, StripPrefix: true})
	require.NoError(t, err)

	assert.Equal(t, dashboard.StateReady, snap.State)
	assert.Equal(t, dataset.KindObject, snap.Source)
	assert.Equal(t, 6, snap.TotalRecords)
	assert.Len(t, snap.Links, 6)
}

func TestObjectSource_Missing(t *testing.T) {
	client := setupMinIO(t)
	ctx := context.Background()

	src := dataset.NewObjectSource(client, "datasets", "absent.csv", "")
	err := dataset.NewSourceChecker(src).Check(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeObjectNotFound))

	require.NoError(t, client.PutObject(ctx, "datasets", "gone.csv", strings.NewReader("x"), 1, "text/csv"))
	require.NoError(t, client.RemoveObject(ctx, "datasets", "gone.csv"))
	_, err = client.OpenObject(ctx, "datasets", "gone.csv")
	assert.True(t, errors.IsNotFound(err))
}

//Personal.AI order the ending
