package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testABI = `[{"type":"function","name":"MINTER_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"}]`

func artifactJSON(name string) []byte {
	return []byte(fmt.Sprintf(`{
  "_format": "hh-sol-artifact-1",
  "contractName": %q,
  "sourceName": "contracts/%s.sol",
  "abi": %s,
  "bytecode": "0x6000"
}`, name, name, testABI))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestParseArtifact(t *testing.T) {
	artifact, err := ParseArtifact(artifactJSON(TokenContract))
	require.NoError(t, err)
	assert.Equal(t, TokenContract, artifact.ContractName)
	assert.Equal(t, "contracts/CarbonCreditToken.sol", artifact.SourceName)
	assert.Equal(t, "0x6000", artifact.Bytecode)
	assert.Equal(t, artifactJSON(TokenContract), artifact.Raw)

	_, err = ParseArtifact([]byte(`{`))
	assert.Error(t, err)

	_, err = ParseArtifact([]byte(`{"abi":[]}`))
	assert.ErrorContains(t, err, "contractName")

	_, err = ParseArtifact([]byte(`{"contractName":"X"}`))
	assert.ErrorContains(t, err, "no abi")

	_, err = ParseArtifact([]byte(`{"contractName":"X","abi":{"bad":true}}`))
	assert.ErrorContains(t, err, "invalid abi")
}

func TestLoadArtifacts_HardhatLayout(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{TokenContract, RegistryContract, VerificationManagerContract} {
		writeFile(t, filepath.Join(dir, "contracts", name+".sol", name+".json"), artifactJSON(name))
	}

	artifacts, err := LoadArtifacts(dir)
	require.NoError(t, err)
	assert.Equal(t, TokenContract, artifacts.Token.ContractName)
	assert.Equal(t, RegistryContract, artifacts.Registry.ContractName)
	assert.Equal(t, VerificationManagerContract, artifacts.VerificationManager.ContractName)
	assert.Len(t, artifacts.All(), 3)
}

func TestLoadArtifact_FlatLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RegistryContract+".json"), artifactJSON(RegistryContract))

	artifact, err := LoadArtifact(dir, RegistryContract)
	require.NoError(t, err)
	assert.Equal(t, RegistryContract, artifact.ContractName)
}

func TestLoadArtifact_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadArtifact(dir, TokenContract)
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	writeFile(t, filepath.Join(dir, TokenContract+".json"), artifactJSON(RegistryContract))
	_, err = LoadArtifact(dir, TokenContract)
	assert.ErrorContains(t, err, "expected contract")

	_, err = LoadArtifacts(dir)
	assert.Error(t, err)
}
