package interfaces

import "context"

// RegistryAPI is the Registry Service as seen by the client: every method is
// exactly one HTTP request. Application-level failures are returned as errors
// carrying the server's message.
type RegistryAPI interface {
	Owner(ctx context.Context) (string, error)
	NetworkInfo(ctx context.Context) (*NetworkInfo, error)

	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, id ProjectID) (*Project, error)

	SubmitProject(ctx context.Context, survey Survey) (*Submission, error)
	SetUnderReview(ctx context.Context, id ProjectID) (TxRef, error)
	Approve(ctx context.Context, id ProjectID, tons uint64) (TxRef, error)
	Reject(ctx context.Context, id ProjectID) (TxRef, error)
	IssueCredits(ctx context.Context, id ProjectID, recipient Address) (TxRef, error)

	AddVerifier(ctx context.Context, verifier Address) (TxRef, error)
	RemoveVerifier(ctx context.Context, verifier Address) (TxRef, error)

	ExplorerContracts(ctx context.Context) (*RegistryContracts, error)
	ExplorerStats(ctx context.Context) (*RegistryStats, error)
	ExplorerRecords(ctx context.Context) ([]Record, error)
}
