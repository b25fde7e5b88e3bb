// Package analytics derives the fuel ledger views from raw fill-ups.
//
// Everything here is pure and synchronous. Callers recompute the whole
// derived view from the raw entries whenever anything changes; nothing is
// patched incrementally.
package analytics
