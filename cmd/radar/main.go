// Command radar collects topic news and papers into a bounded history.
package main

import (
	"os"

	"github.com/custodia-labs/radar/internal/adapters/driving/cli"
	"github.com/custodia-labs/radar/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(app.Bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
