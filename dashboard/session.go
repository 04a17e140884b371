package dashboard

import (
	"sync"
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/notify"
	"github.com/bluecarbon/mrv-dashboard/views"
)

// Session is the dashboard's single operator session: the selected project
// and the last loaded views. Handlers and refresh timers update it
// concurrently.
type Session struct {
	mu sync.Mutex

	selected    interfaces.ProjectID
	project     views.ProjectView
	projects    views.ProjectListView
	refreshedAt time.Time

	feed *notify.Recorder
}

// SessionSnapshot is a copy of the session state.
type SessionSnapshot struct {
	Selected      interfaces.ProjectID  `json:"selected"`
	Project       views.ProjectView     `json:"project"`
	Projects      views.ProjectListView `json:"projects"`
	RefreshedAt   *time.Time            `json:"refreshed_at,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

func NewSession() *Session {
	return &Session{
		project:  views.EmptyProject(),
		projects: views.ProjectListView{State: views.StateIdle, Rows: []views.ProjectRow{}},
		feed:     notify.NewRecorder(),
	}
}

// Feed collects notifications raised outside of a request, such as by refreshes.
func (s *Session) Feed() *notify.Recorder {
	return s.feed
}

func (s *Session) Selected() interfaces.ProjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select changes the selected project and resets its view.
func (s *Session) Select(id interfaces.ProjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != id {
		s.selected = id
		s.project = views.EmptyProject()
	}
}

// SetProject stores a loaded project view. Views of a project that is no
// longer selected are discarded.
func (s *Session) SetProject(v views.ProjectView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.Selected != s.selected {
		return false
	}
	s.project = v
	return true
}

func (s *Session) SetProjects(v views.ProjectListView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = v
}

func (s *Session) markRefreshed(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshedAt = at
}

// Snapshot copies the session and drains its notification feed.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	snap := SessionSnapshot{
		Selected: s.selected,
		Project:  s.project,
		Projects: s.projects,
	}
	if !s.refreshedAt.IsZero() {
		at := s.refreshedAt
		snap.RefreshedAt = &at
	}
	s.mu.Unlock()

	snap.Notifications = s.feed.Drain()
	return snap
}
