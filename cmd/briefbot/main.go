package main

import (
	"fmt"
	"os"

	"github.com/nkoski/briefbot/cmd/briefbot/commands"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
