// Package filesystem provides filesystem implementations for pyswitch.
//
// NewOS is used by the CLI; NewAferoFS wraps an afero.Fs so artifact
// writers and interpreter lookups can run against afero.NewMemMapFs in
// tests.
package filesystem
