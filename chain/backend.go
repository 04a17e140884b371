// Package chain drives contracts through go-ethereum on behalf of a single
// signer. It implements interfaces.ContractBackend on top of bind's bound
// contracts, using the ABI and bytecode carried by compiled artifacts.
package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

var (
	// ErrNoTransactOpts is returned when a transaction is attempted without a signer.
	ErrNoTransactOpts = errors.New("no authorized transactor available")

	// ErrNoBytecode is returned when deploying an artifact without creation code.
	ErrNoBytecode = errors.New("artifact has no bytecode")

	// ErrTxFailed is returned when a transaction is mined with a failed status.
	ErrTxFailed = errors.New("transaction failed")
)

// Client is the subset of an Ethereum node client the backend needs.
// *ethclient.Client and simulated.Client both satisfy it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Backend implements interfaces.ContractBackend.
type Backend struct {
	client Client
	auth   *bind.TransactOpts
	log    *slog.Logger

	mu   sync.Mutex
	abis map[string]*abi.ABI
}

// NewBackend creates a backend sending transactions with auth.
func NewBackend(client Client, auth *bind.TransactOpts, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		client: client,
		auth:   auth,
		log:    log,
		abis:   make(map[string]*abi.ABI),
	}
}

// From returns the signer's address, or the zero address without a signer.
func (b *Backend) From() interfaces.Address {
	if b.auth == nil {
		return interfaces.Address{}
	}
	return interfaces.Address(b.auth.From)
}

// Deploy sends the artifact's creation code with the packed constructor
// arguments and waits until the contract code is present on chain.
func (b *Backend) Deploy(ctx context.Context, artifact *interfaces.Artifact, args ...any) (interfaces.Address, interfaces.TxRef, error) {
	if b.auth == nil {
		return interfaces.Address{}, "", ErrNoTransactOpts
	}

	parsed, err := b.abiFor(artifact)
	if err != nil {
		return interfaces.Address{}, "", err
	}

	code := common.FromHex(artifact.Bytecode)
	if len(code) == 0 {
		return interfaces.Address{}, "", fmt.Errorf("%s: %w", artifact.ContractName, ErrNoBytecode)
	}

	_, tx, _, err := bind.DeployContract(b.transactOpts(ctx), *parsed, code, b.client, toABIArgs(args)...)
	if err != nil {
		return interfaces.Address{}, "", fmt.Errorf("deploying %s: %w", artifact.ContractName, err)
	}
	b.log.Debug("deployment sent", "contract", artifact.ContractName, "tx", tx.Hash().Hex())

	if _, err := b.waitMined(ctx, tx); err != nil {
		return interfaces.Address{}, "", fmt.Errorf("deploying %s: %w", artifact.ContractName, err)
	}

	addr, err := bind.WaitDeployed(ctx, b.client, tx)
	if err != nil {
		return interfaces.Address{}, "", fmt.Errorf("deploying %s: %w", artifact.ContractName, err)
	}

	return interfaces.Address(addr), interfaces.TxRef(tx.Hash().Hex()), nil
}

// Call executes a read-only method against the latest state.
func (b *Backend) Call(ctx context.Context, artifact *interfaces.Artifact, at interfaces.Address, method string, args ...any) ([]any, error) {
	contract, err := b.bind(artifact, at)
	if err != nil {
		return nil, err
	}

	opts := &bind.CallOpts{Context: ctx}
	if b.auth != nil {
		opts.From = b.auth.From
	}

	var out []any
	if err := contract.Call(opts, &out, method, toABIArgs(args)...); err != nil {
		return nil, fmt.Errorf("calling %s.%s: %w", artifact.ContractName, method, err)
	}
	return out, nil
}

// Transact sends a state-changing call and waits for a successful receipt.
func (b *Backend) Transact(ctx context.Context, artifact *interfaces.Artifact, at interfaces.Address, method string, args ...any) (interfaces.TxRef, error) {
	if b.auth == nil {
		return "", ErrNoTransactOpts
	}

	contract, err := b.bind(artifact, at)
	if err != nil {
		return "", err
	}

	tx, err := contract.Transact(b.transactOpts(ctx), method, toABIArgs(args)...)
	if err != nil {
		return "", fmt.Errorf("sending %s.%s: %w", artifact.ContractName, method, err)
	}
	b.log.Debug("transaction sent", "contract", artifact.ContractName, "method", method, "tx", tx.Hash().Hex())

	if _, err := b.waitMined(ctx, tx); err != nil {
		return "", fmt.Errorf("%s.%s: %w", artifact.ContractName, method, err)
	}
	return interfaces.TxRef(tx.Hash().Hex()), nil
}

// toABIArgs maps domain types onto the types the ABI packer expects.
func toABIArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case interfaces.Address:
			out[i] = common.Address(v)
		default:
			out[i] = arg
		}
	}
	return out
}

func (b *Backend) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, b.client, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTxFailed, tx.Hash().Hex())
	}
	return receipt, nil
}

// transactOpts copies the signer's options so the shared value is never
// mutated and binds them to ctx.
func (b *Backend) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *b.auth
	opts.Context = ctx
	return &opts
}

func (b *Backend) bind(artifact *interfaces.Artifact, at interfaces.Address) (*bind.BoundContract, error) {
	parsed, err := b.abiFor(artifact)
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(common.Address(at), *parsed, b.client, b.client, b.client), nil
}

func (b *Backend) abiFor(artifact *interfaces.Artifact) (*abi.ABI, error) {
	if artifact == nil {
		return nil, errors.New("nil artifact")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := string(artifact.ABI)
	if parsed, ok := b.abis[key]; ok {
		return parsed, nil
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("parsing %s ABI: %w", artifact.ContractName, err)
	}
	b.abis[key] = &parsed
	return &parsed, nil
}
