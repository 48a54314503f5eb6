package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/pyswitch/cmd/pyswitch"
	"github.com/arthur-debert/pyswitch/pkg/style"
)

func main() {
	rootCmd := pyswitch.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.RenderError(err))
		os.Exit(1)
	}
}
