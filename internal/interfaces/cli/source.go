package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/config"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/storage/minio"
	"github.com/turtacn/KeyIP-Dashboard/pkg/client"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// ObjectStore is the slice of object storage the CLI needs.
type ObjectStore interface {
	dataset.ObjectOpener
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
	Close() error
}

// ObjectStoreFactory connects to object storage described by cfg.
type ObjectStoreFactory func(cfg *config.Config, log logging.Logger) (ObjectStore, error)

func newMinIOStore(cfg *config.Config, log logging.Logger) (ObjectStore, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeDatasetSourceInvalid, "minio.endpoint is not configured")
	}
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Enabled:         true,
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Region:          cfg.MinIO.Region,
		Bucket:          cfg.MinIO.Bucket,
		CreateBucket:    cfg.MinIO.CreateBucket,
	}, log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// datasetFlags are shared by every command that reads a dataset.
type datasetFlags struct {
	file        string
	object      string
	encoding    string
	stages      []string
	applicants  []string
	stripPrefix bool
	top         int
}

func (f *datasetFlags) register(cmd *cobra.Command, withSelection bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "CSV file to read (default: dataset.path from config)")
	fl.StringVar(&f.object, "object", "", "object key to read from the configured bucket")
	fl.StringVar(&f.encoding, "encoding", "", "text encoding of the CSV (utf-8, shift_jis, euc-jp)")
	if !withSelection {
		return
	}
	// StringArray, not StringSlice: applicant names such as "Canon, Inc."
	// contain commas and must stay one value.
	fl.StringArrayVar(&f.stages, "stage", nil, "stage to keep (repeat for more; default all, empty value keeps none)")
	fl.StringArrayVar(&f.applicants, "applicant", nil, "applicant to keep (repeat for more; default all, empty value keeps none)")
	fl.BoolVar(&f.stripPrefix, "strip-prefix", true, "strip the 2-character kind prefix from document numbers in links")
	fl.IntVar(&f.top, "top", 0, "number of top applicants (default: dataset.top_n from config)")
}

// selection maps the filter flags to a FilterSelection.  An untouched flag
// means the default selection.  A flag given only with an empty value
// selects nothing.
func (f *datasetFlags) selection(cmd *cobra.Command) dashboard.FilterSelection {
	var sel dashboard.FilterSelection
	if cmd.Flags().Changed("stage") {
		sel.Stages = nonNil(f.stages)
	}
	if cmd.Flags().Changed("applicant") {
		sel.Applicants = nonNil(f.applicants)
	}
	return sel
}

// nonNil turns a changed flag into an explicit selection.  "--stage=" arrives
// as [""]; it is passed on as is and dashboard.FilterSelection.Resolve keeps
// the blank only when the dataset has blank cells in that column.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (f *datasetFlags) stripPrefixFor(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("strip-prefix") {
		return f.stripPrefix
	}
	return cfg.Dataset.StripPrefix
}

func (f *datasetFlags) topFor(cfg *config.Config) int {
	if f.top > 0 {
		return f.top
	}
	return cfg.Dataset.TopN
}

// resolveSource picks the dataset to read: --file, then --object, then the
// configured dataset.  A nil Source means there is nothing to read.  The
// returned close func is never nil.
func (f *datasetFlags) resolveSource(cliCtx *CLIContext) (dataset.Source, func(), error) {
	noop := func() {}
	cfg := cliCtx.Config
	enc := f.encoding
	if enc == "" {
		enc = cfg.Dataset.Encoding
	}

	if f.file != "" && f.object != "" {
		return nil, noop, errors.New(errors.ErrCodeBadRequest, "--file and --object are mutually exclusive")
	}
	path, key := f.file, f.object
	if path == "" && key == "" {
		switch cfg.Dataset.Source {
		case config.DatasetSourceFile:
			path = cfg.Dataset.Path
		case config.DatasetSourceObject:
			key = cfg.Dataset.ObjectKey
		}
	}

	switch {
	case path != "":
		return dataset.NewFileSource(path, enc), noop, nil
	case key != "":
		store, err := cliCtx.objectStores(cfg, cliCtx.Logger)
		if err != nil {
			return nil, noop, err
		}
		return dataset.NewObjectSource(store, store.Bucket(), key, enc), func() { _ = store.Close() }, nil
	}
	return nil, noop, nil
}

// refresh loads the dataset named by the flags and computes a snapshot.
// Without --file or --object and with --server set, the server computes it.
func (f *datasetFlags) refresh(cmd *cobra.Command, cliCtx *CLIContext) (*dashboard.Snapshot, error) {
	if cliCtx.ServerAddr != "" && f.file == "" && f.object == "" {
		return f.remoteRefresh(cmd, cliCtx)
	}
	src, closeSrc, err := f.resolveSource(cliCtx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	svc := dashboard.NewService(dataset.NewLoader(dataset.LoaderOptions{Encoding: cliCtx.Config.Dataset.Encoding}, cliCtx.Logger), cliCtx.Logger)
	return svc.Refresh(ctx, &dashboard.RefreshInput{
		Source:      src,
		Selection:   f.selection(cmd),
		StripPrefix: f.stripPrefixFor(cmd, cliCtx.Config),
		TopN:        f.topFor(cliCtx.Config),
	})
}

func (f *datasetFlags) remoteRefresh(cmd *cobra.Command, cliCtx *CLIContext) (*dashboard.Snapshot, error) {
	c, err := client.NewClient(cliCtx.ServerAddr,
		client.WithTimeout(cliCtx.Timeout),
		client.WithLogger(clientLogger{l: cliCtx.Logger.Named("client")}))
	if err != nil {
		return nil, err
	}
	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	sel := f.selection(cmd)
	q := client.Query{Stages: sel.Stages, Applicants: sel.Applicants, Top: f.top}
	if cmd.Flags().Changed("strip-prefix") {
		strip := f.stripPrefix
		q.StripPrefix = &strip
	}
	cliCtx.Logger.Debug("querying dashboard server", logging.String("server", cliCtx.ServerAddr))
	return c.Dashboard().Query(ctx, q)
}

// clientLogger adapts a logging.Logger to the SDK's printf-style Logger.
type clientLogger struct {
	l logging.Logger
}

func (c clientLogger) Debugf(format string, args ...interface{}) {
	c.l.Debug(fmt.Sprintf(format, args...))
}

func (c clientLogger) Infof(format string, args ...interface{}) {
	c.l.Info(fmt.Sprintf(format, args...))
}

func (c clientLogger) Errorf(format string, args ...interface{}) {
	c.l.Error(fmt.Sprintf(format, args...))
}

//Personal.AI order the ending
