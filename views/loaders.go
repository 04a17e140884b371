package views

import (
	"context"
	"fmt"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/lifecycle"
	"github.com/bluecarbon/mrv-dashboard/notify"
)

// Loader fills views from the registry and reports failures to the notifier.
type Loader struct {
	registry interfaces.RegistryAPI
	notifier notify.Notifier
}

func NewLoader(registry interfaces.RegistryAPI, notifier notify.Notifier) *Loader {
	return &Loader{registry: registry, notifier: notifier}
}

// EmptyProject is the project view before any project is selected.
func EmptyProject() ProjectView {
	return ProjectView{
		State:      StateIdle,
		StatusLine: PromptSelectProject,
		View:       lifecycle.Project(interfaces.StatusNone),
	}
}

// Project loads the action center for one project. A zero id yields the
// empty view without a request.
func (l *Loader) Project(ctx context.Context, id interfaces.ProjectID) ProjectView {
	if id == 0 {
		return EmptyProject()
	}

	p, err := l.registry.Project(ctx, id)
	if err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())

		view := ProjectView{
			Selected:   id,
			State:      StateError,
			StatusLine: StatusLoadError,
			View:       lifecycle.Project(interfaces.StatusUnknown),
			Error:      err.Error(),
		}
		if isApplicationError(err) {
			view.StatusLine = StatusNotFound
		}
		return view
	}

	state := lifecycle.ProjectCode(p.StatusCode)
	return ProjectView{
		Selected:   id,
		State:      StateLoaded,
		StatusLine: state.Label,
		Project:    detailsOf(p),
		View:       state,
	}
}

// Projects loads the project list.
func (l *Loader) Projects(ctx context.Context) ProjectListView {
	projects, err := l.registry.Projects(ctx)
	if err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())
		return ProjectListView{State: StateError, Rows: []ProjectRow{}, Error: err.Error()}
	}

	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		state := lifecycle.ProjectCode(p.StatusCode)
		rows = append(rows, ProjectRow{
			ID:           p.ID,
			Submitter:    p.Submitter,
			ClaimedTons:  p.ClaimedTons,
			ApprovedTons: p.ApprovedTons,
			Badge:        state.Badge,
			ColorClass:   state.ColorClass,
			SubmittedAt:  p.SubmittedAt,
		})
	}

	if len(rows) > 0 {
		l.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Loaded %d projects", len(rows)))
	}
	return ProjectListView{State: StateLoaded, Rows: rows, Total: len(rows)}
}

// Network loads the connection panel. Failures are shown in place and not notified.
func (l *Loader) Network(ctx context.Context) NetworkView {
	info, err := l.registry.NetworkInfo(ctx)
	if err != nil {
		return NetworkView{State: StateError, Network: "⚠️ Error", Account: "—", Error: err.Error()}
	}
	return NetworkView{
		State:     StateLoaded,
		Connected: info.Connected,
		Network:   info.Network,
		Account:   info.Account,
	}
}

// Owner loads the registry owner.
func (l *Loader) Owner(ctx context.Context) OwnerView {
	owner, err := l.registry.Owner(ctx)
	if err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())
		return OwnerView{State: StateError, Error: err.Error()}
	}
	l.notifier.Notify(notify.LevelSuccess, "Owner loaded successfully")
	return OwnerView{State: StateLoaded, Owner: owner}
}

// Explorer loads the contracts, stats and records panels.
func (l *Loader) Explorer(ctx context.Context) ExplorerView {
	view := ExplorerView{Records: []RecordRow{}}

	if contracts, err := l.registry.ExplorerContracts(ctx); err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())
		view.ContractsError = err.Error()
	} else {
		view.Contracts = contracts
	}

	if stats, err := l.registry.ExplorerStats(ctx); err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())
		view.StatsError = err.Error()
	} else {
		view.Stats = stats
	}

	records, err := l.registry.ExplorerRecords(ctx)
	if err != nil {
		l.notifier.Notify(notify.LevelError, err.Error())
		view.RecordsError = err.Error()
		return view
	}

	for _, r := range records {
		state := lifecycle.Project(r.Status)
		view.Records = append(view.Records, RecordRow{
			Type:         r.Type,
			ID:           r.ProjectID,
			Submitter:    r.Submitter,
			ClaimedTons:  r.ClaimedTons,
			ApprovedTons: r.ApprovedTons,
			StatusName:   r.StatusName,
			Badge:        state.Badge,
			ColorClass:   state.ColorClass,
			Timestamp:    r.Timestamp,
		})
	}
	view.RecordsTotal = len(view.Records)
	l.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Loaded %d records", view.RecordsTotal))
	return view
}
