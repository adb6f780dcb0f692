// Package classify assigns content categories to files by extension.
//
// It holds the built-in category table (images, videos, audio, documents,
// office, archives, code, system), supports user-defined categories that take
// precedence over the built-ins, and aggregates classified files into
// per-category size and count totals.
package classify
