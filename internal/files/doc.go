// Package files enumerates match documents on disk.
//
// Discovery lists the regular files (or symlinks to them) directly inside a
// directory that match a case-insensitive glob (by default "*.json"). It never recurses, and it
// returns files sorted by name so that a corpus is always read in the same
// order.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	matches, err := discovery.FindFiles("data/matches", files.DefaultMatchPattern)
package files
