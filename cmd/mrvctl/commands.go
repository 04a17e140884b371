package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/bluecarbon/mrv-dashboard/biomass"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/txsubmit"
	"github.com/bluecarbon/mrv-dashboard/views"
)

var surveyFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "drone survey JSON file with avg_ndvi, area_ha and images",
	},
	&cli.Float64Flag{
		Name:  "ndvi",
		Value: biomass.DefaultNDVI,
		Usage: "average NDVI of the surveyed area, 0 to 1",
	},
	&cli.Float64Flag{
		Name:  "area",
		Value: biomass.DefaultAreaHa,
		Usage: "surveyed area in hectares",
	},
	&cli.StringFlag{
		Name:  "images",
		Usage: "comma separated image references",
	},
}

func (e *env) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "owner",
			Usage: "Show the owner of the registry",
			Action: func(cCtx *cli.Context) error {
				v := e.loader.Owner(cCtx.Context)
				views.RenderOwner(e.out, v)
				return failed(v.State)
			},
		},
		{
			Name:  "network",
			Usage: "Show the node connection of the Registry Service",
			Action: func(cCtx *cli.Context) error {
				v := e.loader.Network(cCtx.Context)
				views.RenderNetwork(e.out, v)
				return failed(v.State)
			},
		},
		{
			Name:      "show",
			Usage:     "Show details of a project",
			ArgsUsage: "<project_id>",
			Action: func(cCtx *cli.Context) error {
				id, err := projectArg(cCtx, 0)
				if err != nil {
					return err
				}
				v := e.loader.Project(cCtx.Context, id)
				views.RenderProject(e.out, v)
				return failed(v.State)
			},
		},
		{
			Name:  "projects",
			Usage: "List all projects",
			Action: func(cCtx *cli.Context) error {
				v := e.loader.Projects(cCtx.Context)
				views.RenderProjectList(e.out, v)
				return failed(v.State)
			},
		},
		{
			Name:  "explorer",
			Usage: "Show deployed contracts, registry totals and records",
			Action: func(cCtx *cli.Context) error {
				v := e.loader.Explorer(cCtx.Context)
				views.RenderExplorer(e.out, v)
				if v.ContractsError != "" || v.StatsError != "" || v.RecordsError != "" {
					return errReported
				}
				return nil
			},
		},
		{
			Name:  "estimate",
			Usage: "Preview the biomass estimate and metadata URI of a survey",
			Flags: surveyFlags,
			Action: func(cCtx *cli.Context) error {
				survey, err := surveyInput(cCtx)
				if err != nil {
					return err
				}
				preview, err := biomass.PreviewSurvey(survey)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Factor: %g\n", preview.Factor)
				fmt.Fprintf(e.out, "Estimated Biomass: %d tons\n", preview.Tons)
				fmt.Fprintf(e.out, "Metadata URI: %s\n", preview.MetadataURI)
				return nil
			},
		},
		{
			Name:  "submit-drone",
			Usage: "Submit a drone survey as a new project",
			Flags: surveyFlags,
			Action: func(cCtx *cli.Context) error {
				survey, err := surveyInput(cCtx)
				if err != nil {
					return err
				}
				outcome, err := e.submitter(cCtx.Context).SubmitSurvey(cCtx.Context, survey)
				if err != nil {
					return errReported
				}
				views.RenderSubmission(e.out, outcome.Submission)
				e.awaitRefresh(outcome)
				return nil
			},
		},
		e.transition("under-review", interfaces.ActionUnderReview, "Move a pending project under review", "<project_id>"),
		e.transition("approve", interfaces.ActionApprove, "Approve a project under review", "<project_id> <tons>"),
		e.transition("reject", interfaces.ActionReject, "Reject a pending or reviewed project", "<project_id>"),
		e.transition("issue", interfaces.ActionIssueCredits, "Issue credits for an approved project", "<project_id> <recipient>"),
		e.verifier("add-verifier", interfaces.ActionAddVerifier, "Add a verifier address (owner only)"),
		e.verifier("remove-verifier", interfaces.ActionRemoveVerifier, "Remove a verifier address (owner only)"),
	}
}

func (e *env) transition(name string, action interfaces.Action, usage, argsUsage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(cCtx *cli.Context) error {
			id, err := projectArg(cCtx, 0)
			if err != nil {
				return err
			}

			req := txsubmit.Request{Action: action, ProjectID: id}
			switch action {
			case interfaces.ActionApprove:
				if cCtx.Args().Len() > 1 {
					tons, err := strconv.ParseUint(cCtx.Args().Get(1), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid tons %q", cCtx.Args().Get(1))
					}
					req.Tons = tons
				}
			case interfaces.ActionIssueCredits:
				req.Recipient = cCtx.Args().Get(1)
			}

			return e.submit(cCtx.Context, req)
		},
	}
}

func (e *env) verifier(name string, action interfaces.Action, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<address>",
		Action: func(cCtx *cli.Context) error {
			return e.submit(cCtx.Context, txsubmit.Request{Action: action, Address: cCtx.Args().First()})
		},
	}
}

func (e *env) submit(ctx context.Context, req txsubmit.Request) error {
	outcome, err := e.submitter(ctx).Submit(ctx, req)
	if err != nil {
		return errReported
	}
	fmt.Fprintf(e.out, "Tx: %s\n", outcome.Tx)
	e.awaitRefresh(outcome)
	return nil
}

func (e *env) submitter(ctx context.Context) *txsubmit.Submitter {
	cfg := txsubmit.Config{
		Registry:       e.registry,
		Notifier:       e.notifier,
		Log:            e.log,
		RefreshDelay:   e.delay,
		RefreshContext: ctx,
	}
	if e.delay > 0 {
		cfg.Refresh = e.refresh
	}
	return txsubmit.NewSubmitter(cfg)
}

// refresh prints the project the transaction concerned, or the project list
// after a submission.
func (e *env) refresh(ctx context.Context, project interfaces.ProjectID) {
	if project == 0 {
		views.RenderProjectList(e.out, e.loader.Projects(ctx))
		return
	}
	views.RenderProject(e.out, e.loader.Project(ctx, project))
}

func (e *env) awaitRefresh(outcome *txsubmit.Outcome) {
	if outcome.Refresh != nil {
		outcome.Refresh.Wait()
	}
}

func failed(state views.LoadState) error {
	if state == views.StateError {
		return errReported
	}
	return nil
}

// projectArg parses the positional project id. A missing id is left as zero
// so the submitter reports it the way the dashboard does.
func projectArg(cCtx *cli.Context, n int) (interfaces.ProjectID, error) {
	raw := cCtx.Args().Get(n)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project ID %q", raw)
	}
	return interfaces.ProjectID(id), nil
}

// surveyInput reads the survey from --file, or from --ndvi, --area and
// --images when no file is given. Ranges are checked by the caller.
func surveyInput(cCtx *cli.Context) (interfaces.Survey, error) {
	if path := cCtx.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return interfaces.Survey{}, fmt.Errorf("failed to read survey: %w", err)
		}
		return biomass.DecodeSurvey(data)
	}
	return interfaces.Survey{
		AvgNDVI: cCtx.Float64("ndvi"),
		AreaHa:  cCtx.Float64("area"),
		Images:  biomass.ParseImages(cCtx.String("images")),
	}, nil
}
