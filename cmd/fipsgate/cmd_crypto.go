package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/fipsgate/pkg/check"
)

var pfxDir string

var cryptoCmd = &cobra.Command{
	Use:   "crypto",
	Short: "Run the in-process approved-algorithm battery",
	Long:  "Exercises the platform crypto bindings directly: approved digests, keyed hash,\nsymmetric and asymmetric round-trips, legacy PKCS#12 container imports, and the\ndisapproved-digest rejection. Set PFX_PASSWORD for encrypted containers.",
	Args:  cobra.NoArgs,
	RunE:  runCrypto,
}

func init() {
	cryptoCmd.Flags().StringVar(&pfxDir, "pfx-dir", defaultPfxDir, "directory scanned for legacy .pfx/.p12 containers")
	rootCmd.AddCommand(cryptoCmd)
}

func runCrypto(cmd *cobra.Command, args []string) error {
	var summary check.Summary
	runCryptoBattery(&summary, pfxDir)
	return finish(summary)
}
