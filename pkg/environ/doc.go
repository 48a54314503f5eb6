// Package environ models the environment pyswitch hands to child
// processes and exports to the user's shell.
//
// An Env starts as a copy of a variable list and records every mutation,
// so the same set of changes can be applied to the current process, passed
// to subprocesses through Slice, or rendered as shell statements with
// Exports. PATH analysis (duplicates, missing directories) lives here too.
package environ
