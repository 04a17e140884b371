package interfaces

import (
	"context"
	"encoding/json"
)

// Artifact is a compiled contract in Hardhat's artifact format. Raw keeps the
// file as read so it can be persisted unchanged as the interface descriptor.
type Artifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName,omitempty"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`

	Raw []byte `json:"-"`
}

// ContractBackend deploys and drives contracts on behalf of one signer.
// Every state-changing method returns only once the transaction is confirmed
// with a successful receipt.
type ContractBackend interface {
	// From returns the signer's address.
	From() Address

	// Deploy creates a contract from the artifact with the given constructor arguments.
	Deploy(ctx context.Context, artifact *Artifact, args ...any) (Address, TxRef, error)

	// Call executes a read-only method and returns its unpacked outputs.
	Call(ctx context.Context, artifact *Artifact, at Address, method string, args ...any) ([]any, error)

	// Transact sends a state-changing method call.
	Transact(ctx context.Context, artifact *Artifact, at Address, method string, args ...any) (TxRef, error)
}
