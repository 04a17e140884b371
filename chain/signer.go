package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	vault "github.com/hashicorp/vault/api"
)

// VaultScheme prefixes private key references stored in Vault.
const VaultScheme = "vault://"

var (
	// ErrNoPrivateKey is returned when no key reference is configured.
	ErrNoPrivateKey = errors.New("no private key configured")

	// ErrInvalidKeyRef is returned for malformed Vault key references.
	ErrInvalidKeyRef = errors.New("invalid key reference")
)

// ParsePrivateKey decodes a hex secp256k1 key, with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// NewVaultClient creates a Vault client. The address and token default to
// VAULT_ADDR and VAULT_TOKEN from the environment.
func NewVaultClient(address string) (*vault.Client, error) {
	config := vault.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("failed to read Vault configuration: %w", config.Error)
	}
	if address != "" {
		config.Address = address
	}
	config.Timeout = 30 * time.Second

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	return client, nil
}

// LoadPrivateKey resolves a key reference. A reference is either a hex key or
//
//	vault://<mount>/<path>#<field>
//
// which is read from Vault's logical API. KV v2 responses are unwrapped, so
// vault://secret/data/mrv/deployer#private_key works for the default mount.
// vc may be nil, in which case a client is built from the environment.
func LoadPrivateKey(ctx context.Context, ref string, vc *vault.Client) (*ecdsa.PrivateKey, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoPrivateKey
	}
	if !strings.HasPrefix(ref, VaultScheme) {
		return ParsePrivateKey(ref)
	}

	path, field, err := parseVaultRef(ref)
	if err != nil {
		return nil, err
	}

	if vc == nil {
		vc, err = NewVaultClient("")
		if err != nil {
			return nil, err
		}
	}

	secret, err := vc.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from Vault: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret %s not found in Vault", path)
	}

	data := secret.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}

	value, ok := data[field].(string)
	if !ok || value == "" {
		return nil, fmt.Errorf("field %q missing from secret %s", field, path)
	}
	return ParsePrivateKey(value)
}

func parseVaultRef(ref string) (path, field string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidKeyRef, err)
	}

	mount := u.Host
	secretPath := strings.Trim(u.Path, "/")
	if mount == "" || secretPath == "" {
		return "", "", fmt.Errorf("%w: expected vault://<mount>/<path>#<field>", ErrInvalidKeyRef)
	}
	if u.Fragment == "" {
		return "", "", fmt.Errorf("%w: missing #<field>", ErrInvalidKeyRef)
	}
	return mount + "/" + secretPath, u.Fragment, nil
}

// NewTransactor creates transaction options signing with key for chainID.
func NewTransactor(key *ecdsa.PrivateKey, chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(key, chainID)
}

// Dial connects to an RPC endpoint and returns the client with its chain ID.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, *big.Int, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to read chain ID from %s: %w", rpcURL, err)
	}
	return client, chainID, nil
}
