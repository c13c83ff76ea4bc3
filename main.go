package main

import (
	"fmt"
	"os"

	"github.com/flugtracker/flugtracker-go/cmd"
	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Printf("error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(settings.Debug)

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("command execution error: %v\n", err)
		os.Exit(1)
	}
}
