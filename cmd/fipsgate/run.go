package main

import (
	"errors"

	"github.com/vertti/fipsgate/pkg/check"
	"github.com/vertti/fipsgate/pkg/cryptocheck"
	"github.com/vertti/fipsgate/pkg/imagecheck"
	"github.com/vertti/fipsgate/pkg/output"
	"github.com/vertti/fipsgate/pkg/pkcs12check"
)

// ErrCheckFailed is returned when at least one check failed. The
// returned error causes Cobra to exit with code 1.
var ErrCheckFailed = errors.New("check failed")

// defaultPfxDir is scanned for legacy certificate containers when no
// directory is configured.
const defaultPfxDir = "/usr/local/share/fipsgate/certs"

// runBattery executes checks strictly in order, printing each result
// as it completes so partial progress stays visible, and tallies them
// into summary.
func runBattery(summary *check.Summary, checks []func() check.Result) {
	for _, fn := range checks {
		result := fn()
		output.PrintResult(result)
		summary.Record(result)
	}
}

// specChecks adapts battery specs into runnable checks.
func specChecks(specs []check.Spec) []func() check.Result {
	checks := make([]func() check.Result, 0, len(specs))
	for _, s := range specs {
		s := s
		checks = append(checks, func() check.Result { return check.Run(s) })
	}
	return checks
}

// runCryptoBattery runs the in-process primitives, then the legacy
// container imports, recording everything into summary.
func runCryptoBattery(summary *check.Summary, pfxDir string) {
	runBattery(summary, specChecks(cryptocheck.Battery()))

	c := &pkcs12check.Check{
		Dir:    pfxDir,
		FS:     &pkcs12check.RealFileSystem{},
		Getter: &pkcs12check.RealEnvGetter{},
	}
	for _, result := range c.Run() {
		output.PrintResult(result)
		summary.Record(result)
	}
}

// runAll drives the combined run. The image gate is the one fatal
// precondition: it must pass before either battery emits a single
// check line, so an absent image aborts with nothing recorded.
func runAll(summary *check.Summary, c *imagecheck.Check, pfxDir string, opts imagecheck.BatteryOptions) error {
	if err := c.Gate(); err != nil {
		return err
	}
	runCryptoBattery(summary, pfxDir)
	runBattery(summary, c.Battery(opts))
	return nil
}

// finish prints the summary; a failed run surfaces as ErrCheckFailed.
func finish(summary check.Summary) error {
	output.PrintSummary(summary)
	if !summary.OK() {
		return ErrCheckFailed
	}
	return nil
}
