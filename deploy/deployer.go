// Package deploy brings up the MRV contract suite: the credit token, the
// project registry and the verification manager that mints on approval.
//
// The sequence is strict. Each step needs the previous one and the first
// failure aborts the run without rolling anything back:
//
//  1. deploy CarbonCreditToken(name, symbol, admin)
//  2. deploy MRVRegistry()
//  3. deploy VerificationManager(token, registry)
//  4. grant the token's MINTER_ROLE to the verification manager
//  5. persist the three interface descriptors and then addresses.json
//
// addresses.json is written last, so its presence marks a complete deployment.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// AddressesFile is the name of the persisted address map.
const AddressesFile = "addresses.json"

// Defaults for the token constructor.
const (
	DefaultTokenName   = "BlueCarbon"
	DefaultTokenSymbol = "BCT"
)

// Step identifies a stage of the deployment.
type Step int

const (
	StepDeployToken Step = iota + 1
	StepDeployRegistry
	StepDeployVerificationManager
	StepGrantMinterRole
	StepPersistOutputs
)

func (s Step) String() string {
	switch s {
	case StepDeployToken:
		return "deploy token"
	case StepDeployRegistry:
		return "deploy registry"
	case StepDeployVerificationManager:
		return "deploy verification manager"
	case StepGrantMinterRole:
		return "grant minter role"
	case StepPersistOutputs:
		return "persist outputs"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// StepError reports the step at which a deployment stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", int(e.Step), e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Addresses is the persisted address map.
type Addresses struct {
	Token               interfaces.Address `json:"token"`
	Registry            interfaces.Address `json:"registry"`
	VerificationManager interfaces.Address `json:"verificationManager"`
}

// Result describes a completed deployment.
type Result struct {
	Addresses  Addresses
	MinterRole [32]byte
	Txs        map[Step]interfaces.TxRef
}

// Config parameterizes the token. A zero Admin means the deployer's address.
type Config struct {
	TokenName   string
	TokenSymbol string
	Admin       interfaces.Address
}

// Deployer runs the deployment sequence against one chain backend and one
// output location.
type Deployer struct {
	backend   interfaces.ContractBackend
	output    interfaces.OutputBackend
	artifacts *Artifacts
	config    Config
	log       *slog.Logger
}

// NewDeployer creates a deployer. Empty token name and symbol fall back to
// DefaultTokenName and DefaultTokenSymbol.
func NewDeployer(backend interfaces.ContractBackend, output interfaces.OutputBackend, artifacts *Artifacts, config Config, log *slog.Logger) *Deployer {
	if config.TokenName == "" {
		config.TokenName = DefaultTokenName
	}
	if config.TokenSymbol == "" {
		config.TokenSymbol = DefaultTokenSymbol
	}
	if log == nil {
		log = slog.Default()
	}
	return &Deployer{
		backend:   backend,
		output:    output,
		artifacts: artifacts,
		config:    config,
		log:       log,
	}
}

// Run executes the full sequence. Errors are *StepError.
func (d *Deployer) Run(ctx context.Context) (*Result, error) {
	if d.artifacts == nil || d.artifacts.Token == nil || d.artifacts.Registry == nil || d.artifacts.VerificationManager == nil {
		return nil, &StepError{Step: StepDeployToken, Err: errors.New("missing contract artifacts")}
	}

	result := &Result{Txs: make(map[Step]interfaces.TxRef)}
	from := d.backend.From()
	d.log.Info("Deploying", "from", from.String())

	admin := d.config.Admin
	if admin.IsZero() {
		admin = from
	}

	token, tx, err := d.backend.Deploy(ctx, d.artifacts.Token, d.config.TokenName, d.config.TokenSymbol, admin)
	if err != nil {
		return nil, d.fail(StepDeployToken, err)
	}
	result.Addresses.Token = token
	result.Txs[StepDeployToken] = tx
	d.log.Info("Token deployed", "address", token.String(), "tx", tx)

	registry, tx, err := d.backend.Deploy(ctx, d.artifacts.Registry)
	if err != nil {
		return nil, d.fail(StepDeployRegistry, err)
	}
	result.Addresses.Registry = registry
	result.Txs[StepDeployRegistry] = tx
	d.log.Info("Registry deployed", "address", registry.String(), "tx", tx)

	vm, tx, err := d.backend.Deploy(ctx, d.artifacts.VerificationManager, token, registry)
	if err != nil {
		return nil, d.fail(StepDeployVerificationManager, err)
	}
	result.Addresses.VerificationManager = vm
	result.Txs[StepDeployVerificationManager] = tx
	d.log.Info("VerificationManager deployed", "address", vm.String(), "tx", tx)

	role, err := d.minterRole(ctx, token)
	if err != nil {
		return nil, d.fail(StepGrantMinterRole, err)
	}
	tx, err = d.backend.Transact(ctx, d.artifacts.Token, token, "grantRole", role, vm)
	if err != nil {
		return nil, d.fail(StepGrantMinterRole, err)
	}
	result.MinterRole = role
	result.Txs[StepGrantMinterRole] = tx
	d.log.Info("Granted MINTER_ROLE to VM", "tx", tx)

	if err := d.persist(ctx, result.Addresses); err != nil {
		return nil, d.fail(StepPersistOutputs, err)
	}
	d.log.Info("Saved artifacts and addresses", "location", d.output.LocationURI())

	return result, nil
}

func (d *Deployer) minterRole(ctx context.Context, token interfaces.Address) ([32]byte, error) {
	out, err := d.backend.Call(ctx, d.artifacts.Token, token, "MINTER_ROLE")
	if err != nil {
		return [32]byte{}, err
	}
	if len(out) != 1 {
		return [32]byte{}, fmt.Errorf("MINTER_ROLE returned %d values", len(out))
	}
	role, ok := out[0].([32]byte)
	if !ok {
		return [32]byte{}, fmt.Errorf("MINTER_ROLE returned %T, expected bytes32", out[0])
	}
	return role, nil
}

// persist writes the descriptors first and the address map last.
func (d *Deployer) persist(ctx context.Context, addrs Addresses) error {
	if !d.output.Available(ctx) {
		return fmt.Errorf("%s: %w", d.output.LocationURI(), interfaces.ErrBackendUnavailable)
	}

	for _, artifact := range d.artifacts.All() {
		data, err := descriptor(artifact)
		if err != nil {
			return err
		}
		if err := d.output.Write(ctx, artifact.ContractName+".json", data); err != nil {
			return fmt.Errorf("writing %s descriptor: %w", artifact.ContractName, err)
		}
	}

	data, err := json.MarshalIndent(addrs, "", "  ")
	if err != nil {
		return err
	}
	if err := d.output.Write(ctx, AddressesFile, data); err != nil {
		return fmt.Errorf("writing %s: %w", AddressesFile, err)
	}
	return nil
}

func (d *Deployer) fail(step Step, err error) error {
	d.log.Error("Deployment failed", "step", int(step), "stage", step.String(), "err", err)
	return &StepError{Step: step, Err: err}
}

// descriptor returns the artifact as it was read, or re-encodes it when it
// was built in memory.
func descriptor(artifact *interfaces.Artifact) ([]byte, error) {
	if len(artifact.Raw) > 0 {
		return artifact.Raw, nil
	}
	return json.MarshalIndent(artifact, "", "  ")
}

// Show reads the address map of a previous deployment.
func Show(ctx context.Context, output interfaces.OutputBackend) (*Addresses, error) {
	data, err := output.Read(ctx, AddressesFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s from %s: %w", AddressesFile, output.LocationURI(), err)
	}

	var addrs Addresses
	if err := json.Unmarshal(data, &addrs); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", AddressesFile, err)
	}
	return &addrs, nil
}
