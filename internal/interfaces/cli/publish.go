package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// NewPublishCmd creates the publish command.  It validates a local CSV and
// copies it to the configured bucket, where the "object" dataset source can
// serve it.
func NewPublishCmd() *cobra.Command {
	var (
		file     string
		key      string
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Validate a CSV and upload it to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runPublish(cmd, cliCtx, file, key, encoding)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to publish (required)")
	cmd.Flags().StringVar(&key, "key", "", "object key (default: dataset.object_key, else the file name)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "text encoding of the CSV")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// PublishResult describes an uploaded object.
type PublishResult struct {
	Bucket  string `json:"bucket"`
	Key     string `json:"key"`
	Size    int64  `json:"size"`
	Records int    `json:"records"`
}

func (p *PublishResult) String() string {
	return fmt.Sprintf("OK: published %d records (%d bytes) to %s/%s\n", p.Records, p.Size, p.Bucket, p.Key)
}

func runPublish(cmd *cobra.Command, cliCtx *CLIContext, file, key, encoding string) error {
	cfg := cliCtx.Config
	if key == "" {
		key = cfg.Dataset.ObjectKey
	}
	if key == "" {
		key = filepath.Base(file)
	}
	if encoding == "" {
		encoding = cfg.Dataset.Encoding
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read dataset").WithDetail(file)
	}

	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	// Refuse to publish what the dashboard could not load.
	loader := dataset.NewLoader(dataset.LoaderOptions{Encoding: encoding}, cliCtx.Logger)
	ds, err := loader.Load(ctx, dataset.NewUploadSource(filepath.Base(file), data, encoding))
	if err != nil {
		return err
	}

	store, err := cliCtx.objectStores(cfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PutObject(ctx, store.Bucket(), key, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		return err
	}
	cliCtx.Logger.Info("dataset published",
		logging.String("bucket", store.Bucket()),
		logging.String("key", key),
		logging.Int("records", ds.Len()))

	return PrintResult(cmd, &PublishResult{Bucket: store.Bucket(), Key: key, Size: int64(len(data)), Records: ds.Len()})
}

//Personal.AI order the ending
