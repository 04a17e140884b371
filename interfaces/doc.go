// Package interfaces defines core interfaces and types for the MRV carbon
// registry tooling, separating interface definitions from implementations.
//
// # Domain Types
//
//   - Status: the closed set of project lifecycle states, with StatusUnknown
//     standing in for any code the registry reports outside that set
//   - Action: the requests a verifier or owner can issue
//   - Project, Record, RegistryStats: registry state as reported by the
//     Registry Service
//   - Address, ProjectID, TxRef: identifiers
//
// # Service Interfaces
//
// RegistryAPI: The Registry Service consumed over HTTP. Each method is one
// request; implementations must not retry.
//
// ContractBackend: Deploys and drives contracts for one signer, returning only
// after confirmation.
//
// # Output Interfaces
//
// OutputBackend: Named object storage for deployment outputs across backend
// types (file, S3, IPFS).
//
// OutputBackendFactory: Creates output backends from URI strings and fan-out
// multi-backends.
//
// # Error Types
//
//   - ErrValidation: client-side input failure, no request was sent
//   - ErrTransitionNotPermitted: action not allowed from the current status
//   - ErrObjectNotFound, ErrBackendUnavailable, ErrInvalidLocationURI: output backends
package interfaces
