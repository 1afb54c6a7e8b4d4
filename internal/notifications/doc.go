// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-category toggles (runs, publishes, errors) let an operator
// keep the error channel alive while muting routine run chatter.
//
// Extend this package if you need alternative transports; all workflow code
// depends only on the simple Service interface.
package notifications
