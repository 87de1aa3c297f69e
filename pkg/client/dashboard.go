package client

import (
	"context"
	"net/url"

	"github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// Response types are shared with the server.
type (
	Snapshot      = dashboard.Snapshot
	CategoryCount = dashboard.CategoryCount
	YearCount     = dashboard.YearCount
	LinkEntry     = dashboard.LinkEntry
	UploadMeta    = dashboard.UploadMeta
)

// Query selects records and shapes the result.  A nil Stages or Applicants
// means every value; a non-nil empty slice selects nothing.
type Query struct {
	Stages      []string `json:"stages"`
	Applicants  []string `json:"applicants"`
	StripPrefix *bool    `json:"strip_prefix,omitempty"`
	Top         int      `json:"top,omitempty"`
}

// DashboardClient reads the server's fixed dataset.
type DashboardClient struct {
	client *Client
}

// Get returns the dashboard with the server's default selection.
func (d *DashboardClient) Get(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := d.client.get(ctx, "/api/v1/dashboard", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Query returns the dashboard for q.
func (d *DashboardClient) Query(ctx context.Context, q Query) (*Snapshot, error) {
	var snap Snapshot
	if err := d.client.post(ctx, "/api/v1/dashboard/query", q, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func uploadPath(id string, rest ...string) string {
	p := "/api/v1/uploads/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

//Personal.AI order the ending
