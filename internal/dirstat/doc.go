// Package dirstat computes the direct size of every directory in a tree.
//
// The direct size of a directory is the cumulative size of the files held
// immediately in it, excluding anything in its subdirectories. The tree is
// enumerated first, then each directory is scanned on its own, either
// sequentially or by a fixed pool of workers. Both modes produce the same
// records and statistics. Directories that cannot be listed are recorded as
// errors and never abort the scan.
package dirstat
