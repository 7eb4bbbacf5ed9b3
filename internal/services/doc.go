// Package services defines shared utilities consumed by the collector and its
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run and video identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is instead of matching on message text.
//
// Integrations with external tools live in subpackages (see ytdlp).
package services
