// Package ytdlp wraps the yt-dlp command-line tool for comment retrieval.
//
// The Client builds a metadata-only invocation (--skip-download
// --write-comments) whose output template lands next to the comment cache, runs
// it through an injectable Executor, and locates the resulting .info.json
// artifact. ReadInfo decodes the subset of that artifact the collector needs.
//
// Errors are tagged with services markers: ErrExternalTool for a failed
// process, ErrNotFound for a missing artifact, and ErrValidation for an
// artifact that cannot be decoded.
package ytdlp
