// Package dashboard coordinates refresh cycles against the SENTINEL API and
// renders the resulting snapshot into view models and downloads.
//
// A cycle fetches events and system status concurrently and commits a
// Snapshot only if no newer cycle has started since. Manual refreshes are
// dropped while a cycle is in flight; timer reloads and day-window changes
// always start a new cycle and supersede the old one.
package dashboard
