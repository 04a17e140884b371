// Package views holds the view-state records the dashboard and the operator
// CLI display, and the loaders that fill them from the Registry Service.
//
// A loader never fails: fetch errors become part of the view (its Error
// field and the status text) and are raised as error notifications, so a
// failed read leaves everything else untouched.
package views

import (
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/lifecycle"
)

// LoadState tells how a view got its content.
type LoadState string

const (
	StateIdle   LoadState = "idle"
	StateLoaded LoadState = "loaded"
	StateError  LoadState = "error"
)

// Status lines of the project view.
const (
	PromptSelectProject = "— Enter ID above to check status"
	StatusNotFound      = "⚠️ Project not found"
	StatusLoadError     = "✗ Error loading"
)

// ProjectDetails is a project as displayed.
type ProjectDetails struct {
	ID           interfaces.ProjectID `json:"id"`
	Submitter    string               `json:"submitter"`
	MetadataURI  string               `json:"metadata_uri"`
	ClaimedTons  uint64               `json:"claimed_tons"`
	ApprovedTons uint64               `json:"approved_tons"`
	StatusCode   int64                `json:"status_code"`
	SubmittedAt  time.Time            `json:"submitted_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func detailsOf(p *interfaces.Project) *ProjectDetails {
	return &ProjectDetails{
		ID:           p.ID,
		Submitter:    p.Submitter,
		MetadataURI:  p.MetadataURI,
		ClaimedTons:  p.ClaimedTons,
		ApprovedTons: p.ApprovedTons,
		StatusCode:   p.StatusCode,
		SubmittedAt:  p.SubmittedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProjectView is the single-project action center.
type ProjectView struct {
	Selected   interfaces.ProjectID `json:"selected"`
	State      LoadState            `json:"state"`
	StatusLine string               `json:"status_line"`
	Project    *ProjectDetails      `json:"project,omitempty"`
	View       lifecycle.ViewState  `json:"view"`
	Error      string               `json:"error,omitempty"`
}

// ProjectRow is one line of the project list.
type ProjectRow struct {
	ID           interfaces.ProjectID `json:"id"`
	Submitter    string               `json:"submitter"`
	ClaimedTons  uint64               `json:"claimed_tons"`
	ApprovedTons uint64               `json:"approved_tons"`
	Badge        string               `json:"badge"`
	ColorClass   string               `json:"color_class"`
	SubmittedAt  time.Time            `json:"submitted_at"`
}

// ProjectListView is the aggregate project list.
type ProjectListView struct {
	State LoadState    `json:"state"`
	Rows  []ProjectRow `json:"rows"`
	Total int          `json:"total"`
	Error string       `json:"error,omitempty"`
}

// NetworkView shows the chain connection of the Registry Service.
type NetworkView struct {
	State     LoadState `json:"state"`
	Connected bool      `json:"connected"`
	Network   string    `json:"network"`
	Account   string    `json:"account"`
	Error     string    `json:"error,omitempty"`
}

// OwnerView shows the registry owner.
type OwnerView struct {
	State LoadState `json:"state"`
	Owner string    `json:"owner"`
	Error string    `json:"error,omitempty"`
}

// RecordRow is one line of the explorer record feed.
type RecordRow struct {
	Type         string               `json:"type"`
	ID           interfaces.ProjectID `json:"id"`
	Submitter    string               `json:"submitter"`
	ClaimedTons  uint64               `json:"claimed_tons"`
	ApprovedTons uint64               `json:"approved_tons"`
	StatusName   string               `json:"status_name"`
	Badge        string               `json:"badge"`
	ColorClass   string               `json:"color_class"`
	Timestamp    time.Time            `json:"timestamp"`
}

// ExplorerView combines the three explorer panels. Each panel loads
// independently; a failed panel carries its own error.
type ExplorerView struct {
	Contracts      *interfaces.RegistryContracts `json:"contracts,omitempty"`
	ContractsError string                        `json:"contracts_error,omitempty"`

	Stats      *interfaces.RegistryStats `json:"stats,omitempty"`
	StatsError string                    `json:"stats_error,omitempty"`

	Records      []RecordRow `json:"records"`
	RecordsTotal int         `json:"records_total"`
	RecordsError string      `json:"records_error,omitempty"`
}

// ShortAddress abbreviates an address the way the list shows submitters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}
