package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"pawpress/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var noUpload bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Produce and publish the next episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			runner, cleanup, err := ctx.buildRunner(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := runner.Run(cmd.Context(), workflow.Options{NoUpload: noUpload})
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noUpload, "no-upload", false, "Render the episode but skip every platform upload")
	return cmd
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Re-attempt the missing uploads for the last unpublished episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			runner, cleanup, err := ctx.buildRunner(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := runner.Retry(cmd.Context())
			if errors.Is(err, workflow.ErrNothingToRetry) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to retry; every episode is published.")
				return nil
			}
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, report *workflow.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Episode #%d: %s\n", report.EpisodeNumber, report.Term)
	if report.Title != "" {
		fmt.Fprintf(out, "Title:   %s\n", report.Title)
	}
	fmt.Fprintf(out, "Status:  %s\n", report.Status)
	if report.ArtifactPath != "" {
		fmt.Fprintf(out, "Video:   %s\n", report.ArtifactPath)
	}

	platforms := make([]string, 0, len(report.Succeeded))
	for platform := range report.Succeeded {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		fmt.Fprintf(out, "%-9s%s\n", platform+":", report.Succeeded[platform].URL)
	}

	failed := make([]string, 0, len(report.Failed))
	for platform := range report.Failed {
		failed = append(failed, platform)
	}
	sort.Strings(failed)
	for _, platform := range failed {
		fmt.Fprintf(out, "%s failed: %s\n", platform, report.Failed[platform])
	}
}
