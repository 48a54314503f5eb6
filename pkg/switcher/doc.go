// Package switcher points a session at the target interpreter.
//
// Three methods mirror the ways a CDSW session can be redirected:
//
//   - PathMethod prepends the interpreter's directory to PATH
//   - SymlinkMethod links <local bin>/python3 to the interpreter
//   - EnvMethod exports PY_PYTHON and PYTHON_VERSION as well
//
// Chain tries methods in order until one succeeds. SwitchToVenv switches
// the session to a virtual environment instead.
package switcher
