// Package textutil provides small text helpers shared by the collector and
// the comment cache: reversible escaping of identifiers that become cache
// file names, and Unicode normalization of comment text.
package textutil
