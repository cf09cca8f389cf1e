package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/fipsgate/pkg/check"
	"github.com/vertti/fipsgate/pkg/gatefile"
	"github.com/vertti/fipsgate/pkg/imagecheck"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run both batteries from a fipsgate.yaml file",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to fipsgate.yaml (default: search up from current directory)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := gatefile.Find(wd, runFile)
	if err != nil {
		return err
	}
	cfg, err := gatefile.Load(path)
	if err != nil {
		return err
	}
	if cfg.Image == "" {
		return fmt.Errorf("%s: image is required", path)
	}

	engineName := cfg.Engine
	if engineName == "" {
		engineName = "docker"
	}
	dir := cfg.PfxDir
	if dir == "" {
		dir = defaultPfxDir
	}

	c := &imagecheck.Check{Engine: engineName, Image: cfg.Image, Runner: &imagecheck.RealRunner{}}
	opts := imagecheck.BatteryOptions{
		ProviderVersion: cfg.ProviderVersion,
		RuntimeVersion:  cfg.RuntimeVersion,
		TLSTarget:       cfg.TLSTarget,
		CertLabel:       cfg.CertLabel,
	}

	var summary check.Summary
	if err := runAll(&summary, c, dir, opts); err != nil {
		return err
	}
	return finish(summary)
}
