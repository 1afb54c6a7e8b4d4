package logging

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldEpisode   = "episode"
	FieldSeries    = "series"
	FieldStage     = "stage"
	FieldTerm      = "term"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
)
