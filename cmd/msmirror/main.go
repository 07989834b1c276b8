// msmirror - mirror plots and MGF utilities for spectral library matching
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/msmirror/cmd/msmirror/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
