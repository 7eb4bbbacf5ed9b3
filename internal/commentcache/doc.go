// Package commentcache stores the normalized comments of each video in its own
// JSON file under the cache directory.
//
// A record is an array of {"text": ...} objects written with two-space
// indentation and unescaped non-ASCII text. Records are only ever replaced
// whole through a temp file and rename. The package also owns the directory
// lock that keeps two collect runs from sharing a cache directory.
package commentcache
