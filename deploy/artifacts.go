package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// Contract names, as they appear in compiled artifacts.
const (
	TokenContract               = "CarbonCreditToken"
	RegistryContract            = "MRVRegistry"
	VerificationManagerContract = "VerificationManager"
)

// ErrArtifactNotFound is returned when no artifact file exists for a contract.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifacts holds the three compiled contracts the deployer needs.
type Artifacts struct {
	Token               *interfaces.Artifact
	Registry            *interfaces.Artifact
	VerificationManager *interfaces.Artifact
}

// All returns the artifacts in deployment order.
func (a *Artifacts) All() []*interfaces.Artifact {
	return []*interfaces.Artifact{a.Token, a.Registry, a.VerificationManager}
}

// ParseArtifact decodes a compiled contract and checks its ABI.
func ParseArtifact(data []byte) (*interfaces.Artifact, error) {
	var artifact interfaces.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid artifact JSON: %w", err)
	}
	if artifact.ContractName == "" {
		return nil, errors.New("artifact has no contractName")
	}
	if len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", artifact.ContractName)
	}
	if _, err := abi.JSON(bytes.NewReader(artifact.ABI)); err != nil {
		return nil, fmt.Errorf("artifact %s: invalid abi: %w", artifact.ContractName, err)
	}
	artifact.Raw = data
	return &artifact, nil
}

// LoadArtifact reads the artifact for name from dir. Both the Hardhat layout
// (contracts/<Name>.sol/<Name>.json) and a flat <Name>.json are accepted.
func LoadArtifact(dir, name string) (*interfaces.Artifact, error) {
	candidates := []string{
		filepath.Join(dir, "contracts", name+".sol", name+".json"),
		filepath.Join(dir, name+".sol", name+".json"),
		filepath.Join(dir, name+".json"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		artifact, err := ParseArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if artifact.ContractName != name {
			return nil, fmt.Errorf("%s: expected contract %s, found %s", path, name, artifact.ContractName)
		}
		return artifact, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, dir)
}

// LoadArtifacts reads the token, registry and verification manager artifacts.
func LoadArtifacts(dir string) (*Artifacts, error) {
	token, err := LoadArtifact(dir, TokenContract)
	if err != nil {
		return nil, err
	}
	registry, err := LoadArtifact(dir, RegistryContract)
	if err != nil {
		return nil, err
	}
	vm, err := LoadArtifact(dir, VerificationManagerContract)
	if err != nil {
		return nil, err
	}
	return &Artifacts{Token: token, Registry: registry, VerificationManager: vm}, nil
}
