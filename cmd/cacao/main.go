// Command cacao is the project tool for cacao applications.
package main

import (
	"os"

	"github.com/go-cacao/cacao/cmd/cacao/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
