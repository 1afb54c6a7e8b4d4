package episodelog

import (
	"encoding/json"
	"strings"
)

// Series status values.
const (
	SeriesActive   = "active"
	SeriesComplete = "complete"
)

// Series groups sequential published episodes into a capacity-bounded run.
type Series struct {
	SeriesID       int      `json:"series_id"`
	SeriesName     string   `json:"series_name"`
	EpisodeCount   int      `json:"episode_count"`
	PublishedCount int      `json:"published_count"`
	TermsCovered   []string `json:"terms_covered"`
	Status         string   `json:"status"`
}

// Episode is one production attempt. Known fields are typed; anything else an
// agent attached to the record survives round-trips through Extra.
type Episode struct {
	EpisodeNumber    int
	Term             string
	Category         string
	SeriesID         int
	SeriesPosition   int
	PublishStatus    Status
	NextEpisodeTerm  string
	HistoricalEvents []string
	Title            string
	Date             string
	YouTubeVideoID   string
	YouTubeURL       string
	LinkedInPostID   string
	LinkedInPostURL  string
	ErrorMessage     string
	Extra            map[string]any
}

// episodeJSON carries the known episode fields for (un)marshalling.
type episodeJSON struct {
	EpisodeNumber    int      `json:"episode_number"`
	Term             string   `json:"term"`
	Category         string   `json:"category"`
	SeriesID         int      `json:"series_id"`
	SeriesPosition   int      `json:"series_position"`
	PublishStatus    Status   `json:"publish_status"`
	NextEpisodeTerm  string   `json:"next_episode_term"`
	HistoricalEvents []string `json:"historical_events_covered"`
	Title            string   `json:"title,omitempty"`
	Date             string   `json:"date,omitempty"`
	YouTubeVideoID   string   `json:"youtube_video_id,omitempty"`
	YouTubeURL       string   `json:"youtube_url,omitempty"`
	LinkedInPostID   string   `json:"linkedin_post_id,omitempty"`
	LinkedInPostURL  string   `json:"linkedin_post_url,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

var knownEpisodeKeys = map[string]struct{}{
	"episode_number":            {},
	"term":                      {},
	"category":                  {},
	"series_id":                 {},
	"series_position":           {},
	"publish_status":            {},
	"next_episode_term":         {},
	"historical_events_covered": {},
	"title":                     {},
	"date":                      {},
	"youtube_video_id":          {},
	"youtube_url":               {},
	"linkedin_post_id":          {},
	"linkedin_post_url":         {},
	"error_message":             {},
}

// MarshalJSON emits the known fields plus the extra bucket flattened into the
// same object. Known fields win on key collisions.
func (e Episode) MarshalJSON() ([]byte, error) {
	known := episodeJSON{
		EpisodeNumber:    e.EpisodeNumber,
		Term:             e.Term,
		Category:         e.Category,
		SeriesID:         e.SeriesID,
		SeriesPosition:   e.SeriesPosition,
		PublishStatus:    e.PublishStatus,
		NextEpisodeTerm:  e.NextEpisodeTerm,
		HistoricalEvents: e.HistoricalEvents,
		Title:            e.Title,
		Date:             e.Date,
		YouTubeVideoID:   e.YouTubeVideoID,
		YouTubeURL:       e.YouTubeURL,
		LinkedInPostID:   e.LinkedInPostID,
		LinkedInPostURL:  e.LinkedInPostURL,
		ErrorMessage:     e.ErrorMessage,
	}
	encoded, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return encoded, nil
	}

	merged := make(map[string]json.RawMessage, len(e.Extra)+16)
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for key, value := range e.Extra {
		if _, known := knownEpisodeKeys[key]; known {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the known fields and routes every unknown key into
// the extra bucket.
func (e *Episode) UnmarshalJSON(data []byte) error {
	var known episodeJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Episode{
		EpisodeNumber:    known.EpisodeNumber,
		Term:             known.Term,
		Category:         known.Category,
		SeriesID:         known.SeriesID,
		SeriesPosition:   known.SeriesPosition,
		PublishStatus:    known.PublishStatus,
		NextEpisodeTerm:  known.NextEpisodeTerm,
		HistoricalEvents: known.HistoricalEvents,
		Title:            known.Title,
		Date:             known.Date,
		YouTubeVideoID:   known.YouTubeVideoID,
		YouTubeURL:       known.YouTubeURL,
		LinkedInPostID:   known.LinkedInPostID,
		LinkedInPostURL:  known.LinkedInPostURL,
		ErrorMessage:     known.ErrorMessage,
	}
	for key, value := range raw {
		if _, ok := knownEpisodeKeys[key]; ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[key] = decoded
	}
	return nil
}

// Document is the persisted production history.
type Document struct {
	ChannelName string    `json:"channel_name"`
	BrandVoice  string    `json:"brand_voice"`
	Series      []Series  `json:"series"`
	Episodes    []Episode `json:"episodes"`
}

// Clone returns a deep copy safe to hand to readers.
func (d *Document) Clone() *Document {
	cp := &Document{
		ChannelName: d.ChannelName,
		BrandVoice:  d.BrandVoice,
	}
	cp.Series = make([]Series, len(d.Series))
	for i, series := range d.Series {
		cp.Series[i] = series
		cp.Series[i].TermsCovered = append([]string(nil), series.TermsCovered...)
	}
	cp.Episodes = make([]Episode, len(d.Episodes))
	for i, ep := range d.Episodes {
		cp.Episodes[i] = ep
		cp.Episodes[i].HistoricalEvents = append([]string(nil), ep.HistoricalEvents...)
		if ep.Extra != nil {
			extra := make(map[string]any, len(ep.Extra))
			for k, v := range ep.Extra {
				extra[k] = v
			}
			cp.Episodes[i].Extra = extra
		}
	}
	return cp
}

// episodeByNumber returns a pointer into the episode slice, or nil.
func (d *Document) episodeByNumber(number int) *Episode {
	for i := range d.Episodes {
		if d.Episodes[i].EpisodeNumber == number {
			return &d.Episodes[i]
		}
	}
	return nil
}

// seriesByID returns a pointer into the series slice, or nil.
func (d *Document) seriesByID(id int) *Series {
	for i := range d.Series {
		if d.Series[i].SeriesID == id {
			return &d.Series[i]
		}
	}
	return nil
}

// countPublished counts published episodes assigned to the given series.
func (d *Document) countPublished(seriesID int) int {
	count := 0
	for i := range d.Episodes {
		if d.Episodes[i].SeriesID == seriesID && d.Episodes[i].PublishStatus.Published() {
			count++
		}
	}
	return count
}

func appendTermOnce(terms []string, term string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return terms
	}
	for _, existing := range terms {
		if strings.EqualFold(existing, term) {
			return terms
		}
	}
	return append(terms, term)
}
