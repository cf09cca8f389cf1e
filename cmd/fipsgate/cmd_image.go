package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/fipsgate/pkg/check"
	"github.com/vertti/fipsgate/pkg/imagecheck"
)

var (
	engine          string
	providerVersion string
	runtimeVersion  string
	tlsTarget       string
	certLabel       string
)

var imageCmd = &cobra.Command{
	Use:   "image <ref>",
	Short: "Inspect a FIPS base image through the container engine",
	Long:  "Runs one-shot probes inside ephemeral containers of the target image and\nclassifies each from its exit code and output. Aborts before any probe if the\nimage is not available locally.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImage,
}

func init() {
	imageCmd.Flags().StringVar(&engine, "engine", "docker", "container engine CLI")
	imageCmd.Flags().StringVar(&providerVersion, "provider-version", "", "expected fips provider version (exact)")
	imageCmd.Flags().StringVar(&runtimeVersion, "runtime-version", "", "minimum runtime version")
	imageCmd.Flags().StringVar(&tlsTarget, "tls-target", "", "host:port for the outbound TLS handshake probe")
	imageCmd.Flags().StringVar(&certLabel, "cert-label", "", "image label holding the CMVP certificate reference")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	c := &imagecheck.Check{Engine: engine, Image: args[0], Runner: &imagecheck.RealRunner{}}
	if err := c.Gate(); err != nil {
		return err
	}

	opts := imagecheck.BatteryOptions{
		ProviderVersion: providerVersion,
		RuntimeVersion:  runtimeVersion,
		TLSTarget:       tlsTarget,
		CertLabel:       certLabel,
	}

	var summary check.Summary
	runBattery(&summary, c.Battery(opts))
	return finish(summary)
}
