package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address represents a 20-byte account or contract address.
type Address [20]byte

// NewAddressFromBytes creates an address from a 20-byte slice.
func NewAddressFromBytes(addr []byte) (Address, error) {
	if len(addr) != 20 {
		return Address{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res Address
	copy(res[:], addr)
	return res, nil
}

// NewAddressFromHex parses a 40-character hex address, with or without the 0x prefix.
func NewAddressFromHex(addr string) (Address, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	if len(clean) != 40 {
		return Address{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewAddressFromBytes(addrBytes)
}

// String returns the EIP-55 checksummed, 0x-prefixed form.
func (addr Address) String() string {
	return common.Address(addr).Hex()
}

// Bytes returns the raw 20-byte address.
func (addr Address) Bytes() []byte {
	return addr[:]
}

// IsZero reports whether the address is all zeroes.
func (addr Address) IsZero() bool {
	return addr == Address{}
}

// MarshalText encodes the address in its checksummed hex form.
func (addr Address) MarshalText() ([]byte, error) {
	return []byte(addr.String()), nil
}

// UnmarshalText decodes a hex address.
func (addr *Address) UnmarshalText(text []byte) error {
	parsed, err := NewAddressFromHex(string(text))
	if err != nil {
		return err
	}
	*addr = parsed
	return nil
}

// ProjectID is the registry-assigned project identifier.
type ProjectID uint64

// TxRef is the hex hash of a confirmed transaction, as returned by the
// Registry Service or the chain backend.
type TxRef string

// Short returns the abbreviated reference shown in notifications.
func (tx TxRef) Short() string {
	if len(tx) <= 10 {
		return string(tx)
	}
	return string(tx[:10]) + "..."
}
