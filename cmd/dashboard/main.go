package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/bluecarbon/mrv-dashboard/api/clients"
	"github.com/bluecarbon/mrv-dashboard/cmd/flags"
	"github.com/bluecarbon/mrv-dashboard/dashboard"
)

var listenAddrFlag = &cli.StringFlag{
	Name:    "listen-addr",
	Value:   "127.0.0.1:8080",
	EnvVars: []string{"DASHBOARD_LISTEN_ADDR"},
	Usage:   "address to listen on for the dashboard",
}

func main() {
	if err := flags.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	app := &cli.App{
		Name:  "dashboard",
		Usage: "Serve the MRV registry operator dashboard",
		Flags: append([]cli.Flag{
			listenAddrFlag,
			flags.RegistryAPIFlag,
			flags.RequestTimeoutFlag,
			flags.RefreshDelayFlag,
			flags.LogServiceFlagFn("mrv-dashboard"),
		}, append(flags.LogFlags, flags.ServerFlags...)...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			registryURL := cCtx.String(flags.RegistryAPIFlag.Name)
			registry := clients.NewRegistryClient(registryURL, cCtx.Duration(flags.RequestTimeoutFlag.Name))

			handler := dashboard.NewHandler(dashboard.HandlerConfig{
				Registry:     registry,
				Log:          logger,
				RefreshDelay: cCtx.Duration(flags.RefreshDelayFlag.Name),
			})

			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(listenAddrFlag.Name))
			server, err := dashboard.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Using Registry Service", "url", registry.BaseURL())
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
