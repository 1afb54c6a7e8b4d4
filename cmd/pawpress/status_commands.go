package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pawpress/internal/episodelog"
	"pawpress/internal/textutil"
)

const statusEpisodeWindow = 15

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show series progress and recent episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			doc := ctx.openEpisodeLog(cfg).Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), renderStatus(doc, cfg.Channel.TargetSeriesLength, statusEpisodeWindow))
			return nil
		},
	}
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show what the next run would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			doc := ctx.openEpisodeLog(cfg).Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), renderNext(doc, cfg.Channel.TargetSeriesLength))
			return nil
		},
	}
}

func renderStatus(doc *episodelog.Document, targetLength, episodeLimit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Channel: %s\n", doc.ChannelName)

	if len(doc.Series) == 0 {
		b.WriteString("No episodes produced yet.\n")
		return b.String()
	}

	seriesRows := make([][]string, 0, len(doc.Series))
	for _, series := range doc.Series {
		seriesRows = append(seriesRows, []string{
			strconv.Itoa(series.SeriesID),
			series.SeriesName,
			fmt.Sprintf("%d/%d", series.PublishedCount, targetLength),
			strconv.Itoa(series.EpisodeCount),
			series.Status,
		})
	}
	b.WriteString(renderTable(
		[]string{"Series", "Name", "Published", "Episodes", "Status"},
		seriesRows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
	))
	b.WriteString("\n\n")

	episodes := doc.Episodes
	if episodeLimit > 0 && len(episodes) > episodeLimit {
		fmt.Fprintf(&b, "Last %d of %d episodes:\n", episodeLimit, len(episodes))
		episodes = episodes[len(episodes)-episodeLimit:]
	}
	episodeRows := make([][]string, 0, len(episodes))
	for _, ep := range episodes {
		position := "-"
		if ep.SeriesPosition > 0 {
			position = strconv.Itoa(ep.SeriesPosition)
		}
		episodeRows = append(episodeRows, []string{
			strconv.Itoa(ep.EpisodeNumber),
			ep.Date,
			textutil.Truncate(ep.Term, 32),
			string(ep.PublishStatus),
			strconv.Itoa(ep.SeriesID),
			position,
		})
	}
	b.WriteString(renderTable(
		[]string{"#", "Date", "Term", "Status", "Series", "Pos"},
		episodeRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
	b.WriteString("\n")
	return b.String()
}

func renderNext(doc *episodelog.Document, targetLength int) string {
	var b strings.Builder

	if pending := doc.LastUnpublished(); pending != nil {
		fmt.Fprintf(&b, "Episode #%d (%s) is %s; `pawpress retry` will finish its uploads first.\n",
			pending.EpisodeNumber, pending.Term, pending.PublishStatus)
	}

	queued := doc.QueuedNextTerm()
	switch {
	case queued != "" && !doc.TermCovered(queued):
		fmt.Fprintf(&b, "Next topic: %q (teaser promised by the last published episode).\n", queued)
	case queued != "":
		fmt.Fprintf(&b, "Queued teaser %q is already covered; the executive producer will pick a fresh topic.\n", queued)
	default:
		b.WriteString("No queued teaser; the executive producer will pick a fresh topic.\n")
	}

	if series := doc.CurrentSeries(); series != nil {
		remaining := targetLength - series.PublishedCount
		if remaining <= 0 {
			fmt.Fprintf(&b, "Series %d is complete; the next published episode opens series %d.\n",
				series.SeriesID, series.SeriesID+1)
		} else {
			fmt.Fprintf(&b, "Series %d has %d of %d slots published.\n",
				series.SeriesID, series.PublishedCount, targetLength)
		}
	}
	fmt.Fprintf(&b, "Terms covered so far: %d\n", len(doc.TermsCovered()))
	return b.String()
}
