package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/pkg/client"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// NewValidateCmd creates the validate command.  It exits non-zero when the
// dataset cannot be loaded, e.g. a required column is missing.
func NewValidateCmd() *cobra.Command {
	flags := &datasetFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a CSV has every required column and parses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			snap, err := flags.refresh(cmd, cliCtx)
			if err != nil {
				report := &ValidationReport{Valid: false, Code: errors.GetCode(err).String(), Error: err.Error()}
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					report.Code = apiErr.Code
				}
				_ = PrintResult(cmd, report)
				return err
			}
			if !snap.Ready() {
				return errors.New(errors.ErrCodeBadRequest, "no dataset given: use --file, --object or dataset.source")
			}
			return PrintResult(cmd, newValidationReport(snap))
		},
	}
	flags.register(cmd, false)
	return cmd
}

// ValidationReport summarises one validation run.
type ValidationReport struct {
	Valid              bool   `json:"valid"`
	Source             string `json:"source,omitempty"`
	Records            int    `json:"records"`
	Stages             int    `json:"stages"`
	Applicants         int    `json:"applicants"`
	Undated            int    `json:"undated"`
	UnknownIdentifiers int    `json:"unknown_identifiers"`
	Code               string `json:"code,omitempty"`
	Error              string `json:"error,omitempty"`
}

func newValidationReport(snap *dashboard.Snapshot) *ValidationReport {
	r := &ValidationReport{
		Valid:              true,
		Source:             snap.Source,
		Records:            snap.TotalRecords,
		Undated:            snap.UndatedCount,
		UnknownIdentifiers: snap.UnknownIdentifierCount,
	}
	if snap.Options != nil {
		r.Stages = len(snap.Options.Stages)
		r.Applicants = len(snap.Options.Applicants)
	}
	return r
}

func (r *ValidationReport) String() string {
	if !r.Valid {
		return fmt.Sprintf("INVALID: %s\n", r.Error)
	}
	return fmt.Sprintf("OK: %d records, %d stages, %d applicants, %d undated, %d unknown identifiers\n",
		r.Records, r.Stages, r.Applicants, r.Undated, r.UnknownIdentifiers)
}

//Personal.AI order the ending
