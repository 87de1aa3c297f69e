package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/config"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Timeout      time.Duration
	// ServerAddr, when set, sends dashboard queries to a running apiserver
	// instead of reading a local dataset.
	ServerAddr string

	objectStores ObjectStoreFactory
}

// Option customises NewRootCommand.
type Option func(*rootSettings)

type rootSettings struct {
	objectStores ObjectStoreFactory
	logger       logging.Logger
}

// WithObjectStoreFactory replaces the MinIO-backed object store used by
// --object and publish.
func WithObjectStoreFactory(f ObjectStoreFactory) Option {
	return func(s *rootSettings) { s.objectStores = f }
}

// WithLogger skips logger construction and uses l.
func WithLogger(l logging.Logger) Option {
	return func(s *rootSettings) { s.logger = l }
}

// NewRootCommand creates the keyipdash command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	settings := &rootSettings{objectStores: newMinIOStore}
	for _, o := range opts {
		o(settings)
	}
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "keyipdash",
		Short: "Patent CSV dashboard: aggregates and J-PlatPat links",
		Long: "keyipdash loads a patent CSV export (ステージ, 出願人/権利者, 公知日, 文献番号, 発明の名称),\n" +
			"filters it by stage and applicant, and prints top applicants, stage counts,\n" +
			"yearly publications and J-PlatPat links.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, ro, settings)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&ro.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&ro.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&ro.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.DurationVar(&ro.Timeout, "timeout", 30*time.Second, "global operation timeout")
	pf.StringVar(&ro.ServerAddr, "server", "", "API server address, e.g. http://localhost:8080 (default: read the dataset locally)")

	cmd.AddCommand(
		NewSummaryCmd(),
		NewLinksCmd(),
		NewValidateCmd(),
		NewPublishCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, ro *RootOptions, settings *rootSettings) error {
	switch ro.OutputFormat {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.Newf(errors.ErrCodeBadRequest, "unknown output format %q", ro.OutputFormat)
	}

	cfg, err := initConfig(ro)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := settings.logger
	if logger == nil {
		logger, err = initLogger(ro)
		if err != nil {
			return fmt.Errorf("logger initialization failed: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: ro.OutputFormat,
		Timeout:      ro.Timeout,
		ServerAddr:   ro.ServerAddr,
		objectStores: settings.objectStores,
	}))
	return nil
}

// initConfig loads configuration with priority: env > file > defaults.
func initConfig(ro *RootOptions) (*config.Config, error) {
	if ro.ConfigPath != "" {
		return config.Load(config.WithConfigPath(ro.ConfigPath))
	}
	return config.LoadFromEnv()
}

// initLogger creates a console logger on stderr so stdout carries only
// command output.
func initLogger(ro *RootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            strings.ToLower(ro.LogLevel),
		Format:           "console",
		Name:             "keyipdash",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

func (c *CLIContext) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

// Execute is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// tableProvider is implemented by results that render as one or more tables.
type tableProvider interface {
	Tables() []Table
}

// Table is one titled block of tabular output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputText
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	out := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return printJSON(out, data)
	case OutputTable:
		if tp, ok := data.(tableProvider); ok {
			return printTables(out, tp.Tables())
		}
	}
	return printText(out, data)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprint(w, v.String())
		return err
	default:
		_, err := fmt.Fprintf(w, "%+v\n", v)
		return err
	}
}

func printTables(w io.Writer, tables []Table) error {
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if t.Title != "" {
			fmt.Fprintln(w, t.Title)
		}
		if _, err := fmt.Fprint(w, FormatTable(t.Headers, t.Rows)); err != nil {
			return err
		}
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned table.  Widths are
// measured in terminal cells, so full-width Japanese text lines up.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
				continue
			}
			sb.WriteString(runewidth.FillRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "keyipdash %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
