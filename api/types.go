package api

import (
	"encoding/json"
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// Envelope is the common part of every Registry Service response.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Request payloads.

type SubmitProjectRequest struct {
	AvgNDVI float64  `json:"avg_ndvi"`
	AreaHa  float64  `json:"area_ha"`
	Images  []string `json:"images"`
}

type ProjectRequest struct {
	ProjectID interfaces.ProjectID `json:"project_id"`
}

type ApproveRequest struct {
	ProjectID interfaces.ProjectID `json:"project_id"`
	Tons      uint64               `json:"tons"`
}

type IssueCreditsRequest struct {
	ProjectID interfaces.ProjectID `json:"project_id"`
	Recipient string               `json:"recipient"`
}

type VerifierRequest struct {
	Address string `json:"address"`
}

// Response payloads.

type OwnerResponse struct {
	Envelope
	Owner string `json:"owner"`
}

type NetworkInfoResponse struct {
	Envelope
	Connected bool   `json:"connected"`
	Network   string `json:"network"`
	Account   string `json:"account"`
}

// ProjectPayload is a project as serialized by the Registry Service.
// Timestamps are unix seconds.
type ProjectPayload struct {
	ID           uint64 `json:"id"`
	Submitter    string `json:"submitter"`
	MetadataURI  string `json:"metadataUri"`
	ClaimedTons  uint64 `json:"claimedTons"`
	ApprovedTons uint64 `json:"approvedTons"`
	SubmittedAt  int64  `json:"submittedAt"`
	UpdatedAt    int64  `json:"updatedAt"`

	// Status is an integer code on the single project endpoint.
	Status json.RawMessage `json:"status,omitempty"`

	// StatusCode is only set by the list endpoint, whose Status field is a
	// string label that is off by one. StatusCode is authoritative there.
	StatusCode *int64 `json:"statusCode,omitempty"`
}

type ProjectResponse struct {
	Envelope
	Project ProjectPayload `json:"project"`
}

type AllProjectsResponse struct {
	Envelope
	Projects []ProjectPayload `json:"projects"`
	Total    int              `json:"total"`
}

type SubmitProjectResponse struct {
	Envelope
	Tx          string `json:"tx"`
	MetadataURI string `json:"metadata_uri"`
	Biomass     uint64 `json:"biomass"`
}

type TxResponse struct {
	Envelope
	Tx string `json:"tx"`
}

type ExplorerContractsResponse struct {
	Envelope
	Registry            string `json:"registry"`
	Token               string `json:"token"`
	VerificationManager string `json:"verificationManager"`
	Owner               string `json:"owner"`
}

type ExplorerStatsResponse struct {
	Envelope
	TotalProjects     uint64 `json:"total_projects"`
	TotalBiomassTons  uint64 `json:"total_biomass_tons"`
	TotalApprovedTons uint64 `json:"total_approved_tons"`
}

type RecordPayload struct {
	Type         string `json:"type"`
	ID           uint64 `json:"id"`
	Submitter    string `json:"submitter"`
	ClaimedTons  uint64 `json:"claimedTons"`
	ApprovedTons uint64 `json:"approvedTons"`
	Status       string `json:"status"`
	Timestamp    int64  `json:"timestamp"`
}

type ExplorerRecordsResponse struct {
	Envelope
	Records []RecordPayload `json:"records"`
	Total   int             `json:"total"`
}

// StatusCodeValue returns the authoritative status code of the payload.
// Anything that is not an integer yields -1, which maps to StatusUnknown.
func (p ProjectPayload) StatusCodeValue() int64 {
	if p.StatusCode != nil {
		return *p.StatusCode
	}

	var code int64
	if err := json.Unmarshal(p.Status, &code); err != nil {
		return -1
	}
	return code
}

// ToProject converts the payload into the domain type.
func (p ProjectPayload) ToProject() interfaces.Project {
	code := p.StatusCodeValue()
	return interfaces.Project{
		ID:           interfaces.ProjectID(p.ID),
		Submitter:    p.Submitter,
		MetadataURI:  p.MetadataURI,
		ClaimedTons:  p.ClaimedTons,
		ApprovedTons: p.ApprovedTons,
		Status:       interfaces.StatusFromCode(code),
		StatusCode:   code,
		SubmittedAt:  unixTime(p.SubmittedAt),
		UpdatedAt:    unixTime(p.UpdatedAt),
	}
}

// ToRecord converts the payload into the domain type.
func (r RecordPayload) ToRecord() interfaces.Record {
	return interfaces.Record{
		Type:         r.Type,
		ProjectID:    interfaces.ProjectID(r.ID),
		Submitter:    r.Submitter,
		ClaimedTons:  r.ClaimedTons,
		ApprovedTons: r.ApprovedTons,
		Status:       interfaces.ParseStatusName(r.Status),
		StatusName:   r.Status,
		Timestamp:    unixTime(r.Timestamp),
	}
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
