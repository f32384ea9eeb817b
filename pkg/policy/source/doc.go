// Package source aggregates rule files from an ordered set of directories
// into one globally ordered compilation.
//
// Files are ordered primarily by basename, ascending; files with the same
// basename in different directories are ordered by full path, so an
// override directory such as /etc/keyruled/rules.d wins over a vendor
// directory such as /usr/share/keyruled/rules.d purely through path
// comparison. Both same-named files are compiled and kept; the earlier one
// is simply presented to evaluation first. Note that files with different
// basenames are ordered by name alone, not by directory precedence.
//
// Aggregation degrades gracefully: an unreadable directory or a file that
// fails to compile is logged and skipped, never fatal. A tree with zero
// loadable files yields an empty compilation, which decides nothing.
package source
