package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
)

// NewSummaryCmd creates the summary command: the three aggregate tables.
func NewSummaryCmd() *cobra.Command {
	flags := &datasetFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print top applicants, stage counts and yearly publications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			snap, err := flags.refresh(cmd, cliCtx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, newSummaryResult(snap))
		},
	}
	flags.register(cmd, true)
	return cmd
}

// SummaryResult is the printable form of a snapshot's aggregates.
type SummaryResult struct {
	State                  dashboard.State           `json:"state"`
	Message                string                    `json:"message,omitempty"`
	Source                 string                    `json:"source,omitempty"`
	TotalRecords           int                       `json:"total_records"`
	FilteredRecords        int                       `json:"filtered_records"`
	TopApplicants          []dashboard.CategoryCount `json:"top_applicants"`
	StageCounts            []dashboard.CategoryCount `json:"stage_counts"`
	YearlyPublications     []dashboard.YearCount     `json:"yearly_publications"`
	UndatedCount           int                       `json:"undated_count"`
	UnknownIdentifierCount int                       `json:"unknown_identifier_count"`
}

func newSummaryResult(snap *dashboard.Snapshot) *SummaryResult {
	return &SummaryResult{
		State:                  snap.State,
		Message:                snap.Message,
		Source:                 snap.Source,
		TotalRecords:           snap.TotalRecords,
		FilteredRecords:        snap.FilteredRecords,
		TopApplicants:          snap.TopApplicants,
		StageCounts:            snap.StageCounts,
		YearlyPublications:     snap.YearlyPublications,
		UndatedCount:           snap.UndatedCount,
		UnknownIdentifierCount: snap.UnknownIdentifierCount,
	}
}

func (s *SummaryResult) String() string {
	if s.State != dashboard.StateReady {
		return s.Message + "\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Records: %d of %d\n", s.FilteredRecords, s.TotalRecords)

	sb.WriteString("\nTop applicants:\n")
	for _, c := range s.TopApplicants {
		fmt.Fprintf(&sb, "  %s: %d\n", c.Key, c.Count)
	}
	sb.WriteString("\nStages:\n")
	for _, c := range s.StageCounts {
		fmt.Fprintf(&sb, "  %s: %d\n", c.Key, c.Count)
	}
	sb.WriteString("\nPublications per year:\n")
	for _, y := range s.YearlyPublications {
		fmt.Fprintf(&sb, "  %d: %d\n", y.Year, y.Count)
	}
	if s.UndatedCount > 0 {
		fmt.Fprintf(&sb, "  (undated: %d)\n", s.UndatedCount)
	}
	return sb.String()
}

func (s *SummaryResult) Tables() []Table {
	if s.State != dashboard.StateReady {
		return []Table{{Headers: []string{"state", "message"}, Rows: [][]string{{string(s.State), s.Message}}}}
	}
	years := make([][]string, 0, len(s.YearlyPublications)+1)
	for _, y := range s.YearlyPublications {
		years = append(years, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
	}
	if s.UndatedCount > 0 {
		years = append(years, []string{"undated", strconv.Itoa(s.UndatedCount)})
	}
	return []Table{
		{Title: "Top applicants", Headers: []string{"出願人/権利者", "count"}, Rows: categoryRows(s.TopApplicants)},
		{Title: "Stages", Headers: []string{"ステージ", "count"}, Rows: categoryRows(s.StageCounts)},
		{Title: "Publications per year", Headers: []string{"year", "count"}, Rows: years},
	}
}

func categoryRows(counts []dashboard.CategoryCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Key, strconv.Itoa(c.Count)})
	}
	return rows
}

//Personal.AI order the ending
