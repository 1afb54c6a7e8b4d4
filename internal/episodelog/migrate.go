package episodelog

// migrate upgrades a document written by an older revision to the current
// schema. Returns true when the document was modified and needs persisting.
//
// Legacy logs carried no publish_status; the status is inferred from which
// platform IDs the upload step managed to record. Episodes with a YouTube
// video ID are published, episodes with only a LinkedIn post ID are partial,
// and episodes with neither are failed. Inferred published episodes also get
// a series position so ordering stays gapless, then the series counters are
// recomputed from scratch. Running migrate on a current document is a no-op.
func (d *Document) migrate(targetLength int) bool {
	changed := false
	for i := range d.Episodes {
		ep := &d.Episodes[i]
		if ep.PublishStatus != "" {
			if parsed, ok := ParseStatus(string(ep.PublishStatus)); ok && parsed != ep.PublishStatus {
				ep.PublishStatus = parsed
				changed = true
			}
			continue
		}
		switch {
		case ep.YouTubeVideoID != "":
			ep.PublishStatus = StatusPublished
		case ep.LinkedInPostID != "":
			ep.PublishStatus = StatusPartial
		default:
			ep.PublishStatus = StatusFailed
		}
		changed = true
	}

	// Assign positions to published episodes that predate position tracking,
	// in episode order within each series.
	perSeries := make(map[int]int)
	for i := range d.Episodes {
		ep := &d.Episodes[i]
		if !ep.PublishStatus.Published() {
			continue
		}
		if ep.SeriesPosition > 0 {
			if ep.SeriesPosition > perSeries[ep.SeriesID] {
				perSeries[ep.SeriesID] = ep.SeriesPosition
			}
			continue
		}
		perSeries[ep.SeriesID]++
		ep.SeriesPosition = perSeries[ep.SeriesID]
		changed = true
	}

	if d.recountSeries(targetLength) {
		changed = true
	}
	return changed
}
