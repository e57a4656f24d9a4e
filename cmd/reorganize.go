package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

type reorganizeConfig struct {
	MappingsFile string
	DryRun       bool
	Account      string
	Debug        bool
	Auth         googleAuthConfig
}

func newReorganizeCmd() *cobra.Command {
	var cfg reorganizeConfig

	cmd := &cobra.Command{
		Use:   "reorganize",
		Short: "Move [PREFIX] tasks to their mapped task lists",
		Long: `Move every task whose title starts with "[PREFIX]" to the task list that
prefix is mapped to. Mappings are read from a YAML file, either as an ordered
mapping:

  ADMIN: Admin
  WORK: Work Projects

or as a sequence of {prefix, taskList} entries. The first matching prefix in
file order wins. Destination lists are matched by exact title first, then
case-insensitively. Moved tasks get new ids; titles are left unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Auth.loadEnv(cmd)

			mappings, err := readPrefixMappings(cfg.MappingsFile)
			if err != nil {
				return err
			}

			factory, _, err := cfg.Auth.clientFactory(cfg.DryRun)
			if err != nil {
				return fmt.Errorf("failed to configure Google authentication: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runReorganize(ctx, cmd.OutOrStdout(), factory, cfg, mappings)
		},
	}

	cmd.Flags().StringVarP(&cfg.MappingsFile, "mappings", "m", "", "YAML file mapping prefixes to task list titles")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Only show the planned moves")
	cmd.Flags().StringVar(&cfg.Account, "account", server.DefaultAccount, "Account name whose token is used")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cfg.Auth.addFlags(cmd)
	_ = cmd.MarkFlagRequired("mappings")

	return cmd
}

func readPrefixMappings(path string) ([]workflow.PrefixMapping, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand mappings path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}
	return workflow.ParsePrefixMappingsYAML(data)
}

func runReorganize(ctx context.Context, out io.Writer, factory server.ClientFactory, cfg reorganizeConfig, mappings []workflow.PrefixMapping) error {
	sc, err := server.NewServerContext(ctx, factory, server.WithLogger(newLogger(cfg.Debug)))
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	svc, err := sc.WorkflowForAccount(cfg.Account)
	if err != nil {
		return err
	}

	report, err := svc.Reorganize(ctx, workflow.ReorganizeCommand{
		Mappings: mappings,
		DryRun:   cfg.DryRun,
	})
	if err != nil {
		return err
	}

	renderReorganizeReport(out, report)
	return nil
}

// renderReorganizeReport prints one table row per planned move followed by
// the summary and any warnings.
func renderReorganizeReport(out io.Writer, report *workflow.ReorganizeReport) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	moved := make(map[string]workflow.TransferResult, len(report.Moved))
	for _, m := range report.Moved {
		moved[m.SourceTaskListID+"/"+m.OriginalTaskID] = m
	}
	failed := make(map[string]error, len(report.Failures))
	for _, f := range report.Failures {
		failed[planKey(f.Plan)] = f.Err
	}

	if len(report.Planned) > 0 {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		tbl.AddRow(bold.Sprint("STATUS"), bold.Sprint("TASK"), bold.Sprint("FROM"), bold.Sprint("TO"), bold.Sprint("PREFIX"))

		for _, p := range report.Planned {
			var status string
			switch {
			case report.DryRun:
				status = "planned"
			case failed[planKey(p)] != nil:
				status = red.Sprint("failed")
			case moved[planKey(p)].Partial:
				status = yellow.Sprint("partial")
			default:
				status = green.Sprint("moved")
			}
			tbl.AddRow(status, p.Task.Title, p.Task.TaskListTitle, p.DestinationTitle, p.Prefix)
		}
		_, _ = fmt.Fprintln(out, tbl)
		_, _ = fmt.Fprintln(out)
	}

	switch {
	case report.DryRun:
		_, _ = bold.Fprintf(out, "Dry run: %d task(s) would be moved\n", len(report.Planned))
	case report.Failed > 0:
		_, _ = red.Fprintf(out, "Reorganized tasks: %d succeeded, %d failed\n", report.Succeeded, report.Failed)
	default:
		_, _ = green.Fprintf(out, "Reorganized tasks: %d succeeded, %d failed\n", report.Succeeded, report.Failed)
	}

	for _, f := range report.Failures {
		_, _ = red.Fprintf(out, "Error: %q (%s): %v\n", f.Plan.Task.Title, f.Plan.Task.ID, f.Err)
	}
	for _, w := range report.Warnings {
		_, _ = yellow.Fprintf(out, "Warning: %s\n", w)
	}
	for _, sk := range report.Skipped {
		_, _ = yellow.Fprintf(out, "Warning: task list %s was skipped: %v\n", sk.TaskListID, sk.Err)
	}
}

// planKey identifies a planned task. Task ids are only unique within a list.
func planKey(p workflow.MovePlan) string {
	return p.Task.TaskListID + "/" + p.Task.ID
}
