package views

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02 15:04:05 MST"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func tons(n uint64) string {
	return humanize.Comma(int64(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format(dateLayout)
}

// RenderProject writes the action center of a project.
func RenderProject(w io.Writer, v ProjectView) {
	if v.State != StateLoaded {
		fmt.Fprintln(w, v.StatusLine)
		if v.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", v.Error)
		}
		return
	}

	p := v.Project
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", fmt.Sprintf("#%d", p.ID)},
		{"Submitter", p.Submitter},
		{"Status", v.View.Label},
		{"Claimed Tons", tons(p.ClaimedTons)},
		{"Approved Tons", tons(p.ApprovedTons)},
		{"Metadata URI", p.MetadataURI},
		{"Submitted At", formatTime(p.SubmittedAt)},
		{"Updated At", formatTime(p.UpdatedAt)},
	})
	table.Render()

	switch {
	case v.View.Terminal:
		fmt.Fprintln(w, "Project is finalized; no further actions.")
	case len(v.View.EnabledActions) > 0:
		actions := make([]string, 0, len(v.View.EnabledActions))
		for _, a := range v.View.EnabledActions {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(w, "Available actions: %s\n", strings.Join(actions, ", "))
	default:
		fmt.Fprintln(w, "No actions available.")
	}
}

// RenderProjectList writes the project table.
func RenderProjectList(w io.Writer, v ProjectListView) {
	if v.State == StateError {
		fmt.Fprintf(w, "Error: %s\n", v.Error)
		return
	}
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "No projects found")
		return
	}

	table := newTable(w, "ID", "Submitter", "Claimed Tons", "Approved Tons", "Status", "Submitted")
	for _, r := range v.Rows {
		table.Append([]string{
			fmt.Sprintf("#%d", r.ID),
			ShortAddress(r.Submitter),
			tons(r.ClaimedTons),
			tons(r.ApprovedTons),
			r.Badge,
			formatTime(r.SubmittedAt),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Total", strconv.Itoa(v.Total)})
	table.Render()
}

// RenderNetwork writes the connection panel.
func RenderNetwork(w io.Writer, v NetworkView) {
	fmt.Fprintf(w, "Network: %s\n", v.Network)
	fmt.Fprintf(w, "Account: %s\n", v.Account)
	if v.State == StateLoaded {
		fmt.Fprintf(w, "Connected: %t\n", v.Connected)
	}
}

// RenderOwner writes the registry owner.
func RenderOwner(w io.Writer, v OwnerView) {
	if v.State == StateError {
		fmt.Fprintf(w, "Error: %s\n", v.Error)
		return
	}
	fmt.Fprintf(w, "Registry owner: %s\n", v.Owner)
}

// RenderExplorer writes the three explorer panels.
func RenderExplorer(w io.Writer, v ExplorerView) {
	fmt.Fprintln(w, "Contracts")
	if v.Contracts != nil {
		table := newTable(w, "Contract", "Address")
		table.AppendBulk([][]string{
			{"MRVRegistry", v.Contracts.Registry},
			{"CarbonCreditToken", v.Contracts.Token},
			{"VerificationManager", v.Contracts.VerificationManager},
			{"Owner", v.Contracts.Owner},
		})
		table.Render()
	} else {
		fmt.Fprintf(w, "Error: %s\n", v.ContractsError)
	}

	fmt.Fprintln(w, "Statistics")
	if v.Stats != nil {
		fmt.Fprintf(w, "Total projects: %s\n", tons(v.Stats.TotalProjects))
		fmt.Fprintf(w, "Total biomass: %s tons\n", tons(v.Stats.TotalBiomassTons))
		fmt.Fprintf(w, "Total approved: %s tons\n", tons(v.Stats.TotalApprovedTons))
	} else {
		fmt.Fprintf(w, "Error: %s\n", v.StatsError)
	}

	fmt.Fprintln(w, "Records")
	if v.RecordsError != "" {
		fmt.Fprintf(w, "Error: %s\n", v.RecordsError)
		return
	}
	if len(v.Records) == 0 {
		fmt.Fprintln(w, "No records found")
		return
	}

	table := newTable(w, "Type", "ID", "Submitter", "Claimed", "Approved", "Status", "Time")
	for _, r := range v.Records {
		table.Append([]string{
			r.Type,
			fmt.Sprintf("#%d", r.ID),
			ShortAddress(r.Submitter),
			tons(r.ClaimedTons),
			tons(r.ApprovedTons),
			r.Badge,
			humanize.Time(r.Timestamp),
		})
	}
	table.Render()
}

// RenderSubmission writes the outcome of a project submission.
func RenderSubmission(w io.Writer, sub *interfaces.Submission) {
	fmt.Fprintln(w, "✓ Project Submitted Successfully")
	fmt.Fprintf(w, "Transaction: %s\n", sub.Tx)
	fmt.Fprintf(w, "Estimated Biomass: %s tons\n", tons(sub.Biomass))
	fmt.Fprintf(w, "Metadata URI: %s\n", sub.MetadataURI)
}
