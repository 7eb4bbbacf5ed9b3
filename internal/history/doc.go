// Package history keeps an optional SQLite ledger of collect runs.
//
// Each run gets a UUID and a row in the runs table; every identifier the run
// processed is appended to run_outcomes with its status, failure reason, and
// comment count. The ledger is advisory: the comment cache remains the source
// of truth for whether a video needs fetching, and collect runs succeed even
// when the ledger cannot be written.
package history
