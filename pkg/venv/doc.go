// Package venv creates and drives the target virtual environment.
//
// The environment is created with `<interpreter> -m venv`, its packaging
// tools upgraded, and optional package sets installed with its own pip.
// Exec runs arbitrary commands inside the environment without activating
// it in the calling shell.
package venv
