// Package types defines the interfaces shared across pyswitch packages.
// The filesystem abstraction lives here so packages that write artifacts
// or inspect interpreter layouts can be tested against an in-memory FS.
package types
