package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "fipsgate",
	Short:   "FIPS-140 verification checks for container images",
	Long:    "Fipsgate verifies that a FIPS base image and its crypto stack behave as configured:\napproved algorithms work, disapproved ones are refused, and the image carries the\nexpected provider, runtime, and metadata.",
	Version: Version,
	// Check failures and gate aborts are not usage errors.
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
