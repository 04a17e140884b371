package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/bluecarbon/mrv-dashboard/api/clients"
	"github.com/bluecarbon/mrv-dashboard/cmd/flags"
	"github.com/bluecarbon/mrv-dashboard/notify"
	"github.com/bluecarbon/mrv-dashboard/views"
)

// errReported marks failures that were already shown to the operator.
var errReported = errors.New("command failed")

// env is the state shared by all commands of one invocation.
type env struct {
	out      io.Writer
	log      *slog.Logger
	registry *clients.RegistryClient
	notifier notify.Notifier
	loader   *views.Loader
	delay    time.Duration
}

// newApp builds the command tree. Command output goes to out, logs to logOut.
func newApp(out, logOut io.Writer) *cli.App {
	e := &env{out: out}

	return &cli.App{
		Name:      "mrvctl",
		Usage:     "Operate the MRV carbon-credit registry",
		Writer:    out,
		ErrWriter: out,
		Flags: append([]cli.Flag{
			flags.RegistryAPIFlag,
			flags.RequestTimeoutFlag,
			flags.RefreshDelayFlag,
			flags.LogServiceFlagFn("mrvctl"),
		}, flags.LogFlags...),
		Before: func(cCtx *cli.Context) error {
			e.log = flags.SetupLoggerTo(cCtx, logOut)
			e.registry = clients.NewRegistryClient(
				cCtx.String(flags.RegistryAPIFlag.Name),
				cCtx.Duration(flags.RequestTimeoutFlag.Name),
			)
			e.notifier = notify.NewWriterNotifier(out)
			e.loader = views.NewLoader(e.registry, e.notifier)
			e.delay = cCtx.Duration(flags.RefreshDelayFlag.Name)
			e.log.Debug("using Registry Service", "url", e.registry.BaseURL())
			return nil
		},
		Commands: e.commands(),
	}
}

func main() {
	if err := flags.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
