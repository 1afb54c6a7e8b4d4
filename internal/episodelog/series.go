package episodelog

import "fmt"

// assignSeries places a new episode into a series and returns the series ID.
// The most recent series is reused while it still has published capacity;
// otherwise a fresh series is opened. Capacity is measured against published
// episodes only, so drafts and failures never consume a slot.
func (d *Document) assignSeries(targetLength int) int {
	if targetLength <= 0 {
		targetLength = 1
	}
	if len(d.Series) > 0 {
		last := &d.Series[len(d.Series)-1]
		if d.countPublished(last.SeriesID) < targetLength {
			last.EpisodeCount++
			return last.SeriesID
		}
		if last.Status != SeriesComplete {
			last.Status = SeriesComplete
		}
	}
	next := Series{
		SeriesID:   len(d.Series) + 1,
		SeriesName: fmt.Sprintf("%s Series %d", d.ChannelName, len(d.Series)+1),
		Status:     SeriesActive,
	}
	next.EpisodeCount = 1
	d.Series = append(d.Series, next)
	return next.SeriesID
}

// recordPublished updates series bookkeeping after an episode enters the
// published status. It assigns the episode's position within its series,
// advances the published count, records the covered term, and flips the
// series to complete when it reaches capacity.
func (d *Document) recordPublished(ep *Episode, targetLength int) {
	series := d.seriesByID(ep.SeriesID)
	if series == nil {
		// Episode predates series tracking; adopt it into the current series.
		ep.SeriesID = d.assignSeries(targetLength)
		series = d.seriesByID(ep.SeriesID)
	}
	if ep.SeriesPosition == 0 {
		ep.SeriesPosition = d.countPublished(series.SeriesID)
	}
	series.PublishedCount = d.countPublished(series.SeriesID)
	series.TermsCovered = appendTermOnce(series.TermsCovered, ep.Term)
	if targetLength > 0 && series.PublishedCount >= targetLength {
		series.Status = SeriesComplete
	}
}

// recountSeries recomputes every series' published count and episode count
// from the episode list and fixes completion flags. Returns true when any
// series changed.
func (d *Document) recountSeries(targetLength int) bool {
	changed := false
	for i := range d.Series {
		series := &d.Series[i]
		published := d.countPublished(series.SeriesID)
		episodes := 0
		for j := range d.Episodes {
			if d.Episodes[j].SeriesID == series.SeriesID {
				episodes++
			}
		}
		if series.PublishedCount != published {
			series.PublishedCount = published
			changed = true
		}
		if series.EpisodeCount != episodes {
			series.EpisodeCount = episodes
			changed = true
		}
		status := SeriesActive
		if targetLength > 0 && published >= targetLength {
			status = SeriesComplete
		}
		if series.Status != status {
			series.Status = status
			changed = true
		}
	}
	return changed
}
