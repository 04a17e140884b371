// Package registrystub is an in-memory Registry Service speaking the same
// JSON envelope protocol as the real one. Transitions follow the lifecycle
// table, so it can stand in for the service in tests and offline demos.
package registrystub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bluecarbon/mrv-dashboard/api"
	"github.com/bluecarbon/mrv-dashboard/biomass"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/lifecycle"
	"github.com/go-chi/chi/v5"
)

// listLabels reproduces the off-by-one labels of the all-projects endpoint.
var listLabels = map[interfaces.Status]string{
	interfaces.StatusNone:        "Submitted",
	interfaces.StatusSubmitted:   "UnderReview",
	interfaces.StatusUnderReview: "Approved",
	interfaces.StatusApproved:    "Tokenized",
	interfaces.StatusTokenized:   "Rejected",
}

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Stub is the in-memory service. All methods are safe for concurrent use.
type Stub struct {
	mu sync.Mutex

	owner     string
	account   string
	chainID   int64
	contracts interfaces.ContractSet

	projects  []*interfaces.Project
	verifiers map[interfaces.Address]bool
	txCount   int
	failures  map[string]string
	requests  []Request

	now func() time.Time
}

// New creates an empty registry owned by owner.
func New(owner string) *Stub {
	return &Stub{
		owner:   owner,
		account: owner,
		chainID: 31337,
		contracts: interfaces.ContractSet{
			Token:               "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Registry:            "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
			VerificationManager: "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
		},
		verifiers: make(map[interfaces.Address]bool),
		failures:  make(map[string]string),
		now:       time.Now,
	}
}

// SetClock replaces the time source used for project timestamps.
func (s *Stub) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddProject registers a project directly in the given status.
func (s *Stub) AddProject(submitter string, claimedTons uint64, status interfaces.Status) interfaces.ProjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProjectLocked(submitter, "", claimedTons, status)
}

// Project returns a copy of the stored project.
func (s *Stub) Project(id interfaces.ProjectID) (interfaces.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupLocked(id)
	if !ok {
		return interfaces.Project{}, false
	}
	return *p, true
}

// IsVerifier reports whether the address holds the verifier role.
func (s *Stub) IsVerifier(addr interfaces.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiers[addr]
}

// FailNext makes the next request to path answer {success:false, error:message}.
func (s *Stub) FailNext(path, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = message
}

// Requests returns every request received so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests hit path.
func (s *Stub) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Handler returns the HTTP interface of the stub.
func (s *Stub) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get(api.PathOwner, s.handleOwner)
	r.Get(api.PathNetworkInfo, s.handleNetworkInfo)
	r.Get(api.PathAllProjects, s.handleAllProjects)
	r.Get(api.PathProjectPrefix+"{id}", s.handleProject)
	r.Post(api.PathSubmitProject, s.handleSubmit)
	r.Post(api.ActionPath(interfaces.ActionUnderReview), s.handleTransition(interfaces.ActionUnderReview))
	r.Post(api.ActionPath(interfaces.ActionApprove), s.handleTransition(interfaces.ActionApprove))
	r.Post(api.ActionPath(interfaces.ActionReject), s.handleTransition(interfaces.ActionReject))
	r.Post(api.ActionPath(interfaces.ActionIssueCredits), s.handleTransition(interfaces.ActionIssueCredits))
	r.Post(api.ActionPath(interfaces.ActionAddVerifier), s.handleVerifier(true))
	r.Post(api.ActionPath(interfaces.ActionRemoveVerifier), s.handleVerifier(false))
	r.Get(api.PathExplorerContracts, s.handleContracts)
	r.Get(api.PathExplorerStats, s.handleStats)
	r.Get(api.PathExplorerRecords, s.handleRecords)

	return r
}

func (s *Stub) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var raw json.RawMessage
			_ = json.NewDecoder(r.Body).Decode(&raw)
			body = raw
			r.Body = http.NoBody
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		message, fail := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()

		if fail {
			writeError(w, message)
			return
		}

		next.ServeHTTP(w, r.WithContext(withBody(r.Context(), body)))
	})
}

func (s *Stub) handleOwner(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, api.OwnerResponse{Envelope: ok(), Owner: s.owner})
}

func (s *Stub) handleNetworkInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	network := fmt.Sprintf("Chain ID: %d", s.chainID)
	if s.chainID == 31337 {
		network = "Hardhat Local"
	}
	writeJSON(w, api.NetworkInfoResponse{Envelope: ok(), Connected: true, Network: network, Account: s.account})
}

func (s *Stub) handleAllProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := api.AllProjectsResponse{Envelope: ok(), Projects: []api.ProjectPayload{}}
	for _, p := range s.projects {
		payload := toPayload(*p)
		code := int64(p.Status)
		label, known := listLabels[p.Status]
		if !known {
			label = strconv.FormatInt(code, 10)
		}
		payload.Status, _ = json.Marshal(label)
		payload.StatusCode = &code
		resp.Projects = append(resp.Projects, payload)
	}
	resp.Total = len(resp.Projects)
	writeJSON(w, resp)
}

func (s *Stub) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid project id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The registry answers a zeroed project for unknown ids.
	p, found := s.lookupLocked(interfaces.ProjectID(id))
	payload := api.ProjectPayload{Status: json.RawMessage("0")}
	if found {
		payload = toPayload(*p)
	}
	writeJSON(w, api.ProjectResponse{Envelope: ok(), Project: payload})
}

func (s *Stub) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req := api.SubmitProjectRequest{AvgNDVI: biomass.DefaultNDVI, AreaHa: biomass.DefaultAreaHa}
	if err := json.Unmarshal(bodyFrom(r.Context()), &req); err != nil {
		writeError(w, err.Error())
		return
	}

	survey := interfaces.Survey{AvgNDVI: req.AvgNDVI, AreaHa: req.AreaHa, Images: req.Images}
	preview, err := biomass.PreviewSurvey(survey)
	if err != nil {
		writeError(w, validationMessage(req))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.addProjectLocked(s.account, preview.MetadataURI, preview.Tons, interfaces.StatusSubmitted)
	writeJSON(w, api.SubmitProjectResponse{
		Envelope:    ok(),
		Tx:          s.nextTxLocked(),
		MetadataURI: preview.MetadataURI,
		Biomass:     preview.Tons,
	})
}

func (s *Stub) handleTransition(action interfaces.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID *uint64 `json:"project_id"`
			Tons      *uint64 `json:"tons"`
			Recipient string  `json:"recipient"`
		}
		if err := json.Unmarshal(bodyFrom(r.Context()), &req); err != nil {
			writeError(w, err.Error())
			return
		}

		switch {
		case req.ProjectID == nil:
			writeError(w, "Project ID required")
			return
		case action == interfaces.ActionApprove && req.Tons == nil:
			writeError(w, "Project ID and tons required")
			return
		case action == interfaces.ActionIssueCredits && req.Recipient == "":
			writeError(w, "Project ID and recipient address required")
			return
		}
		if action == interfaces.ActionIssueCredits {
			if _, err := interfaces.NewAddressFromHex(req.Recipient); err != nil {
				writeError(w, "Invalid recipient address")
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		p, found := s.lookupLocked(interfaces.ProjectID(*req.ProjectID))
		if !found {
			writeError(w, "execution reverted: project does not exist")
			return
		}

		next, err := lifecycle.Next(p.Status, action)
		if err != nil {
			writeError(w, "execution reverted: invalid status for "+string(action))
			return
		}

		p.Status = next
		p.StatusCode = int64(next)
		p.UpdatedAt = s.now().UTC().Truncate(time.Second)
		if action == interfaces.ActionApprove {
			p.ApprovedTons = *req.Tons
		}
		writeJSON(w, api.TxResponse{Envelope: ok(), Tx: s.nextTxLocked()})
	}
}

func (s *Stub) handleVerifier(grant bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.VerifierRequest
		if err := json.Unmarshal(bodyFrom(r.Context()), &req); err != nil {
			writeError(w, err.Error())
			return
		}
		if req.Address == "" {
			writeError(w, "Address required")
			return
		}

		addr, err := interfaces.NewAddressFromHex(req.Address)
		if err != nil {
			writeError(w, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if grant {
			s.verifiers[addr] = true
		} else {
			delete(s.verifiers, addr)
		}
		writeJSON(w, api.TxResponse{Envelope: ok(), Tx: s.nextTxLocked()})
	}
}

func (s *Stub) handleContracts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, api.ExplorerContractsResponse{
		Envelope:            ok(),
		Registry:            s.contracts.Registry,
		Token:               s.contracts.Token,
		VerificationManager: s.contracts.VerificationManager,
		Owner:               s.account,
	})
}

func (s *Stub) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := api.ExplorerStatsResponse{Envelope: ok(), TotalProjects: uint64(len(s.projects))}
	for _, p := range s.projects {
		resp.TotalBiomassTons += p.ClaimedTons
		resp.TotalApprovedTons += p.ApprovedTons
	}
	writeJSON(w, resp)
}

func (s *Stub) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := api.ExplorerRecordsResponse{Envelope: ok(), Records: []api.RecordPayload{}}
	for _, p := range s.projects {
		resp.Records = append(resp.Records, api.RecordPayload{
			Type:         "Project",
			ID:           uint64(p.ID),
			Submitter:    p.Submitter,
			ClaimedTons:  p.ClaimedTons,
			ApprovedTons: p.ApprovedTons,
			Status:       p.Status.Name(),
			Timestamp:    p.SubmittedAt.Unix(),
		})
	}
	slices.SortStableFunc(resp.Records, func(a, b api.RecordPayload) int {
		return int(b.Timestamp - a.Timestamp)
	})
	resp.Total = len(resp.Records)
	writeJSON(w, resp)
}

func (s *Stub) addProjectLocked(submitter, metadataURI string, claimedTons uint64, status interfaces.Status) interfaces.ProjectID {
	now := s.now().UTC().Truncate(time.Second)
	id := interfaces.ProjectID(len(s.projects) + 1)
	if metadataURI == "" {
		metadataURI = fmt.Sprintf("sha256:%064x", uint64(id))
	}
	s.projects = append(s.projects, &interfaces.Project{
		ID:          id,
		Submitter:   submitter,
		MetadataURI: metadataURI,
		ClaimedTons: claimedTons,
		Status:      status,
		StatusCode:  int64(status),
		SubmittedAt: now,
		UpdatedAt:   now,
	})
	return id
}

func (s *Stub) lookupLocked(id interfaces.ProjectID) (*interfaces.Project, bool) {
	if id == 0 || int(id) > len(s.projects) {
		return nil, false
	}
	return s.projects[id-1], true
}

func (s *Stub) nextTxLocked() string {
	s.txCount++
	return fmt.Sprintf("0x%064x", s.txCount)
}

func validationMessage(req api.SubmitProjectRequest) string {
	if req.AvgNDVI < 0 || req.AvgNDVI > 1 {
		return "NDVI must be between 0 and 1"
	}
	return "Area must be greater than 0"
}

func toPayload(p interfaces.Project) api.ProjectPayload {
	return api.ProjectPayload{
		ID:           uint64(p.ID),
		Submitter:    p.Submitter,
		MetadataURI:  p.MetadataURI,
		ClaimedTons:  p.ClaimedTons,
		ApprovedTons: p.ApprovedTons,
		Status:       json.RawMessage(strconv.FormatInt(int64(p.Status), 10)),
		SubmittedAt:  p.SubmittedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}
}
