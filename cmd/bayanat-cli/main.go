// Command bayanat-cli manages Bayanat installations.
package main

import (
	"fmt"
	"os"

	"github.com/sjacorg/bayanat-cli/internal/cli"
	"github.com/sjacorg/bayanat-cli/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}
