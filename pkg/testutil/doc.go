// Package testutil provides utilities for testing pyswitch components.
//
// Key components:
//   - FakeRunner: scripted runner.Runner keyed by command line, records calls
//   - TestEnvironment: isolated HOME, env variables and filesystem per test
//
// Usage guidelines:
//   - No test should run real interpreters or package managers
//   - Prefer EnvMemoryOnly; use EnvIsolated only when symlinks or real
//     files are needed
//   - All test data should be defined inline
package testutil
