// Package collector gathers comment text for a list of video identifiers.
//
// FetchOne answers a single identifier from the on-disk cache or, on a miss,
// from yt-dlp, and reports a tagged Outcome so callers can tell "no comments"
// apart from "fetch failed". FetchAll runs identifiers sequentially with fixed
// pacing, answers repeated identifiers from the run's memory, and concatenates
// entries in input order. WriteTable turns the result into a one-column CSV.
//
// Per-identifier failures never abort a run; only setup (cache directory
// creation) and output errors are returned to the caller.
package collector
