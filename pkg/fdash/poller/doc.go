// Package poller implements the market price poller.
//
// The poller:
//   - Starts on a "begin polling" trigger and fetches immediately
//   - Re-fetches every Interval (default: 1h) until stopped
//   - Drops ticks while a fetch is in flight; at most one fetch runs at a time
//   - Replaces the running timer when triggered again; the latest trigger wins
//   - Publishes BulkAddPriceData on success and LoadedFailure on error
//   - Stops its timer after a failure until the next trigger
package poller
