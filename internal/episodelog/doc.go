// Package episodelog persists the production history of the channel as a
// single JSON document and exposes helpers for driving episode lifecycle.
//
// The Store owns the document: every Append or UpdateStatus call mutates the
// in-memory copy and rewrites the whole file atomically. Episodes carry a
// publish status (draft, failed, partial, published) and are grouped into
// capacity-bounded series; only the transition into published counts an
// episode toward its series. Loading performs a one-time migration that
// backfills publish statuses from legacy platform ID fields, so every other
// operation can assume the current schema.
//
// Treat this package as the single source of truth for episode and series
// semantics; the workflow runner decides statuses, the store enforces the
// transitions.
package episodelog
