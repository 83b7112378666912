package main

import (
	"fmt"
	"os"

	"github.com/kubev2v/query-engine/cmd"
	"github.com/kubev2v/query-engine/internal/config"
)

func main() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	if err := cmd.NewRootCommand(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
