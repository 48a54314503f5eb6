package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/pyswitch/cmd/pyswitch"
	"github.com/arthur-debert/pyswitch/internal/version"
)

func main() {
	rootCmd := pyswitch.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PYSWITCH",
		Section: "1",
		Source:  "pyswitch " + version.Version,
		Manual:  "pyswitch manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
