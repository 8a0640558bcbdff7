// Command cimtab converts CIM EQ RDF/XML exports into per-class tables.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cimtab/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
