package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/overhang-risk/internal/cli"
	"github.com/iwvelando/overhang-risk/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env values feed OVERHANG_ overrides before the config is read
	if _, err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
