package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bluecarbon/mrv-dashboard/api"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// DefaultTimeout bounds every request when no timeout is given.
const DefaultTimeout = 30 * time.Second

// RegistryClient talks to the Registry Service over HTTP.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.RegistryAPI = (*RegistryClient)(nil)

// NewRegistryClient creates a client for the Registry Service at baseURL
// (e.g. "http://127.0.0.1:5000"). The optional timeout defaults to 30 seconds.
func NewRegistryClient(baseURL string, timeout ...time.Duration) *RegistryClient {
	clientTimeout := DefaultTimeout
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &RegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// BaseURL returns the Registry Service address.
func (c *RegistryClient) BaseURL() string {
	return c.baseURL
}

// Owner returns the registry owner address.
func (c *RegistryClient) Owner(ctx context.Context) (string, error) {
	var resp api.OwnerResponse
	if err := c.get(ctx, api.PathOwner, &resp); err != nil {
		return "", err
	}
	return resp.Owner, nil
}

// NetworkInfo returns the chain connection of the Registry Service.
func (c *RegistryClient) NetworkInfo(ctx context.Context) (*interfaces.NetworkInfo, error) {
	var resp api.NetworkInfoResponse
	if err := c.get(ctx, api.PathNetworkInfo, &resp); err != nil {
		return nil, err
	}
	return &interfaces.NetworkInfo{
		Connected: resp.Connected,
		Network:   resp.Network,
		Account:   resp.Account,
	}, nil
}

// Projects lists every registered project.
func (c *RegistryClient) Projects(ctx context.Context) ([]interfaces.Project, error) {
	var resp api.AllProjectsResponse
	if err := c.get(ctx, api.PathAllProjects, &resp); err != nil {
		return nil, err
	}

	projects := make([]interfaces.Project, 0, len(resp.Projects))
	for _, p := range resp.Projects {
		projects = append(projects, p.ToProject())
	}
	return projects, nil
}

// Project fetches a single project.
func (c *RegistryClient) Project(ctx context.Context, id interfaces.ProjectID) (*interfaces.Project, error) {
	var resp api.ProjectResponse
	if err := c.get(ctx, api.ProjectPath(id), &resp); err != nil {
		return nil, err
	}
	project := resp.Project.ToProject()
	return &project, nil
}

// SubmitProject submits a drone survey; the registry computes the
// authoritative biomass and metadata URI.
func (c *RegistryClient) SubmitProject(ctx context.Context, survey interfaces.Survey) (*interfaces.Submission, error) {
	images := survey.Images
	if images == nil {
		images = []string{}
	}

	var resp api.SubmitProjectResponse
	err := c.post(ctx, api.PathSubmitProject, api.SubmitProjectRequest{
		AvgNDVI: survey.AvgNDVI,
		AreaHa:  survey.AreaHa,
		Images:  images,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &interfaces.Submission{
		Tx:          interfaces.TxRef(resp.Tx),
		MetadataURI: resp.MetadataURI,
		Biomass:     resp.Biomass,
	}, nil
}

// SetUnderReview moves a submitted project into review.
func (c *RegistryClient) SetUnderReview(ctx context.Context, id interfaces.ProjectID) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionUnderReview, api.ProjectRequest{ProjectID: id})
}

// Approve approves a project under review for the given tonnage.
func (c *RegistryClient) Approve(ctx context.Context, id interfaces.ProjectID, tons uint64) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionApprove, api.ApproveRequest{ProjectID: id, Tons: tons})
}

// Reject rejects a project under review.
func (c *RegistryClient) Reject(ctx context.Context, id interfaces.ProjectID) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionReject, api.ProjectRequest{ProjectID: id})
}

// IssueCredits mints credits for an approved project to recipient.
func (c *RegistryClient) IssueCredits(ctx context.Context, id interfaces.ProjectID, recipient interfaces.Address) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionIssueCredits, api.IssueCreditsRequest{ProjectID: id, Recipient: recipient.String()})
}

// AddVerifier grants the verifier role.
func (c *RegistryClient) AddVerifier(ctx context.Context, verifier interfaces.Address) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionAddVerifier, api.VerifierRequest{Address: verifier.String()})
}

// RemoveVerifier revokes the verifier role.
func (c *RegistryClient) RemoveVerifier(ctx context.Context, verifier interfaces.Address) (interfaces.TxRef, error) {
	return c.transact(ctx, interfaces.ActionRemoveVerifier, api.VerifierRequest{Address: verifier.String()})
}

// ExplorerContracts returns the deployed contract addresses and the owner.
func (c *RegistryClient) ExplorerContracts(ctx context.Context) (*interfaces.RegistryContracts, error) {
	var resp api.ExplorerContractsResponse
	if err := c.get(ctx, api.PathExplorerContracts, &resp); err != nil {
		return nil, err
	}
	return &interfaces.RegistryContracts{
		ContractSet: interfaces.ContractSet{
			Token:               resp.Token,
			Registry:            resp.Registry,
			VerificationManager: resp.VerificationManager,
		},
		Owner: resp.Owner,
	}, nil
}

// ExplorerStats returns registry-wide aggregates.
func (c *RegistryClient) ExplorerStats(ctx context.Context) (*interfaces.RegistryStats, error) {
	var resp api.ExplorerStatsResponse
	if err := c.get(ctx, api.PathExplorerStats, &resp); err != nil {
		return nil, err
	}
	return &interfaces.RegistryStats{
		TotalProjects:     resp.TotalProjects,
		TotalBiomassTons:  resp.TotalBiomassTons,
		TotalApprovedTons: resp.TotalApprovedTons,
	}, nil
}

// ExplorerRecords returns the record feed, newest first as served.
func (c *RegistryClient) ExplorerRecords(ctx context.Context) ([]interfaces.Record, error) {
	var resp api.ExplorerRecordsResponse
	if err := c.get(ctx, api.PathExplorerRecords, &resp); err != nil {
		return nil, err
	}

	records := make([]interfaces.Record, 0, len(resp.Records))
	for _, r := range resp.Records {
		records = append(records, r.ToRecord())
	}
	return records, nil
}

func (c *RegistryClient) transact(ctx context.Context, action interfaces.Action, payload any) (interfaces.TxRef, error) {
	var resp api.TxResponse
	if err := c.post(ctx, api.ActionPath(action), payload, &resp); err != nil {
		return "", err
	}
	return interfaces.TxRef(resp.Tx), nil
}

func (c *RegistryClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *RegistryClient) post(ctx context.Context, path string, payload, out any) error {
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

// do sends the request and decodes the envelope. The HTTP status is only
// used to describe failures; the success flag decides the outcome.
func (c *RegistryClient) do(req *http.Request, path string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	var envelope api.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%s returned a non-JSON response with code %d: %w", path, resp.StatusCode, err)
	}

	if !envelope.Success {
		return &api.APIError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    envelope.Error,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}
