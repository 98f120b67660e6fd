// main is the entry point for the trafficprofile CLI.
package main

import (
	"os"

	"github.com/huangsam/trafficprofile/cmd"
	"github.com/huangsam/trafficprofile/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error starting CLI", err)
		os.Exit(1)
	}
}
