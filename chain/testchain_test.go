package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// SetupTestChain creates a simulated blockchain for testing purposes.
// It returns:
// - The simulated backend for direct control (commit blocks, etc.)
// - The transaction auth with the funded account
// - The private key for the funded account
func SetupTestChain() (*simulated.Backend, *bind.TransactOpts, *ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(1337))
	if err != nil {
		return nil, nil, nil, err
	}

	balance := new(big.Int)
	balance.SetString("10000000000000000000", 10) // 10 ETH

	genesisAlloc := map[common.Address]types.Account{
		auth.From: {
			Balance: balance,
		},
	}

	blockGasLimit := uint64(8000000)
	backend := simulated.NewBackend(genesisAlloc, simulated.WithBlockGasLimit(blockGasLimit))

	return backend, auth, privateKey, nil
}

// autoCommitClient mines a block after every accepted transaction so
// receipts are available as soon as SendTransaction returns.
type autoCommitClient struct {
	simulated.Client
	backend *simulated.Backend
}

func newAutoCommitClient(backend *simulated.Backend) *autoCommitClient {
	return &autoCommitClient{Client: backend.Client(), backend: backend}
}

func (c *autoCommitClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}
