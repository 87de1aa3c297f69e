package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
)

// NewLinksCmd creates the links command: one J-PlatPat link per filtered
// record.
func NewLinksCmd() *cobra.Command {
	flags := &datasetFlags{}
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Print J-PlatPat links for the filtered records",
		Long: "Print one J-PlatPat link per filtered record, in file order.  Text output\n" +
			"is a markdown list; documents with an unrecognised prefix link with code \"unknown\".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			snap, err := flags.refresh(cmd, cliCtx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &LinksResult{State: snap.State, Message: snap.Message, Links: snap.Links})
		},
	}
	flags.register(cmd, true)
	return cmd
}

// LinksResult is the printable link list.
type LinksResult struct {
	State   dashboard.State       `json:"state"`
	Message string                `json:"message,omitempty"`
	Links   []dashboard.LinkEntry `json:"links"`
}

func (l *LinksResult) String() string {
	if l.State != dashboard.StateReady {
		return l.Message + "\n"
	}
	var sb strings.Builder
	for _, e := range l.Links {
		sb.WriteString("- ")
		sb.WriteString(e.Markdown())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (l *LinksResult) Tables() []Table {
	rows := make([][]string, 0, len(l.Links))
	for _, e := range l.Links {
		rows = append(rows, []string{e.DocumentNumber, e.IdentifierCode.String(), e.URL})
	}
	return []Table{{Headers: []string{"文献番号", "code", "url"}, Rows: rows}}
}

//Personal.AI order the ending
