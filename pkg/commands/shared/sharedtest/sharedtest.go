// Package sharedtest scripts fake interpreters for flow tests.
package sharedtest

import (
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
)

// Interpreter scripts everything the flows ask an interpreter at path:
// version info, the default probes (passing when the version is new
// enough), the virtual environment check and the pip dry run.
func Interpreter(fake *testutil.FakeRunner, path, pyVersion, prefix string, inVenv bool) {
	v := discovery.MustParseVersion(pyVersion)
	fake.On(path+" -c "+probe.VersionInfoCode, pyVersion+"\n")
	fake.On(path+" --version", "Python "+pyVersion+"\n")

	for _, p := range probe.DefaultProbes {
		line := path + " -c " + p.Code
		if p.Since == "" || discovery.AtLeast(v, p.Since) {
			fake.On(line, "")
		} else {
			fake.OnFail(line, "ModuleNotFoundError: "+p.Name, 1)
		}
	}

	venv := "False"
	if inVenv {
		venv = "True"
	}
	fake.On(path+" -c "+probe.VirtualEnvCode, fmt.Sprintf("%s\n%s\n", venv, prefix))
	fake.On(path+" -m pip install --dry-run requests", "Would install requests\n")
}

// Deps returns flow dependencies over env with a session whose PATH is path
func Deps(env *testutil.TestEnvironment, path string) shared.Deps {
	return shared.Deps{
		Runner:  env.Runner,
		FS:      env.FS,
		Session: session.New(environ.FromSlice([]string{"PATH=" + path, "HOME=" + env.HomeDir})),
	}
}
