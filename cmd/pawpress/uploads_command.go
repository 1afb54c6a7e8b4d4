package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pawpress/internal/logging"
	"pawpress/internal/textutil"
	"pawpress/internal/uploadlog"
)

func newUploadsCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Show the upload audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			log := uploadlog.Open(cfg.UploadLogPath(), cfg.Channel.Name, logging.NewNop())

			var entries []uploadlog.Entry
			if failedOnly {
				entries = log.Failed()
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}
			} else {
				entries = log.Recent(limit)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderUploads(entries, log.Summary()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed upload attempts")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func renderUploads(entries []uploadlog.Entry, stats uploadlog.Stats) string {
	var b strings.Builder

	if len(entries) == 0 {
		b.WriteString("No upload attempts recorded.\n")
	} else {
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			detail := entry.RemoteURL
			if entry.Status == uploadlog.OutcomeFailed {
				detail = textutil.Truncate(entry.ErrorMessage, 48)
			}
			rows = append(rows, []string{
				strconv.Itoa(entry.ID),
				entry.Timestamp,
				entry.Platform,
				entry.Status,
				strconv.Itoa(entry.EpisodeNumber),
				textutil.Truncate(entry.Term, 24),
				detail,
			})
		}
		b.WriteString(renderTable(
			[]string{"ID", "Time", "Platform", "Status", "Ep", "Term", "Detail"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Attempts: %d  Succeeded: %d  Failed: %d  Skipped: %d\n",
		stats.TotalAttempts, stats.Successful, stats.Failed, stats.Skipped)
	if stats.LastSuccess != "" {
		fmt.Fprintf(&b, "Last success: %s\n", stats.LastSuccess)
	}
	return b.String()
}
