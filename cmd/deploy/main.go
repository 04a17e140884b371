package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bluecarbon/mrv-dashboard/chain"
	"github.com/bluecarbon/mrv-dashboard/cmd/flags"
	"github.com/bluecarbon/mrv-dashboard/deploy"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/storage"
	vault "github.com/hashicorp/vault/api"
)

var (
	artifactsFlag = &cli.StringFlag{
		Name:    "artifacts",
		Value:   "./artifacts",
		EnvVars: []string{"ARTIFACTS_DIR"},
		Usage:   "directory with compiled contract artifacts",
	}
	outputFlag = &cli.StringSliceFlag{
		Name:    "output",
		Value:   cli.NewStringSlice("./deployed"),
		EnvVars: []string{"DEPLOY_OUTPUT"},
		Usage:   "output location for addresses and descriptors, repeatable",
	}
	tokenNameFlag = &cli.StringFlag{
		Name:  "token-name",
		Value: deploy.DefaultTokenName,
		Usage: "credit token name",
	}
	tokenSymbolFlag = &cli.StringFlag{
		Name:  "token-symbol",
		Value: deploy.DefaultTokenSymbol,
		Usage: "credit token symbol",
	}
	tokenAdminFlag = &cli.StringFlag{
		Name:  "token-admin",
		Usage: "credit token admin address (default: the deployer)",
	}
)

func newApp(out, logOut io.Writer) *cli.App {
	return &cli.App{
		Name:   "deploy",
		Usage:  "Deploy the MRV registry contracts",
		Writer: out,
		Flags: append([]cli.Flag{
			flags.RpcAddrFlag,
			flags.PrivateKeyFlag,
			flags.VaultAddrFlag,
			artifactsFlag,
			outputFlag,
			tokenNameFlag,
			tokenSymbolFlag,
			tokenAdminFlag,
			flags.LogServiceFlagFn("mrv-deploy"),
		}, flags.LogFlags...),
		Action: func(cCtx *cli.Context) error {
			return runDeploy(cCtx, out, logOut)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Deploy the contracts and persist their addresses",
				Action: func(cCtx *cli.Context) error {
					return runDeploy(cCtx, out, logOut)
				},
			},
			{
				Name:  "show",
				Usage: "Print the addresses of the last deployment",
				Action: func(cCtx *cli.Context) error {
					return runShow(cCtx, out, logOut)
				},
			},
		},
	}
}

func runDeploy(cCtx *cli.Context, out, logOut io.Writer) error {
	ctx := cCtx.Context
	logger := flags.SetupLoggerTo(cCtx, logOut)

	var admin interfaces.Address
	if raw := cCtx.String(tokenAdminFlag.Name); raw != "" {
		parsed, err := interfaces.NewAddressFromHex(raw)
		if err != nil {
			return fmt.Errorf("invalid token admin: %w", err)
		}
		admin = parsed
	}

	artifacts, err := deploy.LoadArtifacts(cCtx.String(artifactsFlag.Name))
	if err != nil {
		logger.Error("Failed to load artifacts", "err", err)
		return err
	}

	output, err := outputBackend(cCtx, logger)
	if err != nil {
		return err
	}

	rpcAddr := cCtx.String(flags.RpcAddrFlag.Name)
	logger.Info("Connecting to Ethereum RPC", "address", rpcAddr)
	client, chainID, err := chain.Dial(ctx, rpcAddr)
	if err != nil {
		logger.Error("Failed to dial RPC", "err", err)
		return err
	}
	defer client.Close()

	var vc *vault.Client
	if addr := cCtx.String(flags.VaultAddrFlag.Name); addr != "" {
		if vc, err = chain.NewVaultClient(addr); err != nil {
			return err
		}
	}

	key, err := chain.LoadPrivateKey(ctx, cCtx.String(flags.PrivateKeyFlag.Name), vc)
	if err != nil {
		logger.Error("Failed to load deployer key", "err", err)
		return err
	}
	auth, err := chain.NewTransactor(key, chainID)
	if err != nil {
		return err
	}

	deployer := deploy.NewDeployer(chain.NewBackend(client, auth, logger), output, artifacts, deploy.Config{
		TokenName:   cCtx.String(tokenNameFlag.Name),
		TokenSymbol: cCtx.String(tokenSymbolFlag.Name),
		Admin:       admin,
	}, logger)

	result, err := deployer.Run(ctx)
	if err != nil {
		return err
	}
	return printAddresses(out, result.Addresses)
}

func runShow(cCtx *cli.Context, out, logOut io.Writer) error {
	output, err := outputBackend(cCtx, flags.SetupLoggerTo(cCtx, logOut))
	if err != nil {
		return err
	}
	addrs, err := deploy.Show(cCtx.Context, output)
	if err != nil {
		return err
	}
	return printAddresses(out, *addrs)
}

func outputBackend(cCtx *cli.Context, logger *slog.Logger) (interfaces.OutputBackend, error) {
	var locations []interfaces.OutputLocation
	for _, raw := range cCtx.StringSlice(outputFlag.Name) {
		loc, err := interfaces.NewOutputLocation(raw)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return storage.NewOutputBackendFactory(logger).CreateMultiBackend(locations)
}

func printAddresses(w io.Writer, addrs deploy.Addresses) error {
	data, err := json.MarshalIndent(addrs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func main() {
	if err := flags.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
