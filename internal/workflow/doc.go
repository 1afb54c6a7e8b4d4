// Package workflow drives one production run end to end: topic selection,
// script and packaging agents, narration and video render, platform uploads,
// and the episode log bookkeeping that records what happened. A run is a
// single pass guarded by a file lock; the scheduler invoking the binary
// provides the cadence.
package workflow
