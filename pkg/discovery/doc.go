// Package discovery locates Python interpreters.
//
// Lookups go through the runner: `which <binary>` for the PATH location and
// `<binary> --version` for the version string. When `which` fails the
// configured candidate paths are checked on the filesystem. Missing
// interpreters are reported, never fatal, for installation listings.
package discovery
