package imagecheck

import (
	"fmt"

	"github.com/vertti/fipsgate/pkg/check"
)

// Default parameters for probes the options leave unset.
const (
	DefaultTLSTarget = "www.microsoft.com:443"
	DefaultCertLabel = "fips.cmvp-certificate"

	titleLabel = "org.opencontainers.image.title"
)

// BatteryOptions parameterizes the probes that compare versions or
// labels. Empty version fields skip the comparison probes entirely.
type BatteryOptions struct {
	ProviderVersion string // expected fips provider version (exact)
	RuntimeVersion  string // minimum runtime version
	CertLabel       string // label holding the CMVP certificate reference
	TLSTarget       string // host:port for the outbound handshake probe
}

// Battery returns the full inspection battery in run order. Every
// entry is independent and idempotent; a failing probe never stops the
// run. Callers must pass Gate before executing any of these.
func (c *Check) Battery(opts BatteryOptions) []func() check.Result {
	tlsTarget := opts.TLSTarget
	if tlsTarget == "" {
		tlsTarget = DefaultTLSTarget
	}
	certLabel := opts.CertLabel
	if certLabel == "" {
		certLabel = DefaultCertLabel
	}

	var checks []func() check.Result

	probe := func(p Probe) {
		checks = append(checks, func() check.Result { return c.Run(p) })
	}

	probe(Probe{
		Name:  "image: fips-provider-active",
		Cmd:   "openssl list -providers -verbose",
		Match: `(?s)fips.*status:\s*active`,
	})
	if opts.ProviderVersion != "" {
		expected := opts.ProviderVersion
		checks = append(checks, func() check.Result { return c.ProviderVersion(expected) })
	}

	probe(Probe{
		Name:     "image: sha256-available",
		Cmd:      "echo fipsgate | openssl dgst -sha256",
		Contains: "SHA2-256",
	})
	probe(Probe{
		Name:     "image: sha384-available",
		Cmd:      "echo fipsgate | openssl dgst -sha384",
		Contains: "SHA2-384",
	})
	probe(Probe{
		Name:     "image: sha512-available",
		Cmd:      "echo fipsgate | openssl dgst -sha512",
		Contains: "SHA2-512",
	})
	probe(Probe{
		Name:     "image: hmac-available",
		Cmd:      "echo fipsgate | openssl dgst -sha256 -hmac fipsgate-key",
		Contains: "HMAC",
	})
	probe(Probe{
		Name:     "image: md5-rejected",
		Cmd:      "echo fipsgate | openssl dgst -md5",
		Polarity: check.ExpectRejection,
	})

	probe(Probe{
		Name:     "image: openssl-config",
		Cmd:      "cat " + opensslConfPath,
		Contains: "fips_sect",
	})
	probe(Probe{
		Name:     "image: fipsmodule-config",
		Cmd:      "cat " + fipsModuleConfPath,
		Contains: "activate = 1",
	})

	probe(Probe{
		Name:     "image: runtime-present",
		Cmd:      "dotnet --list-runtimes",
		Contains: "Microsoft.NETCore.App",
	})
	if opts.RuntimeVersion != "" {
		minimum := opts.RuntimeVersion
		checks = append(checks, func() check.Result { return c.RuntimeVersion(minimum) })
	}

	checks = append(checks, func() check.Result {
		return c.Label("image: title-label", titleLabel, "")
	})
	checks = append(checks, func() check.Result {
		return c.Label("image: cmvp-certificate-label", certLabel, "")
	})

	probe(Probe{
		Name:     "image: openssl-config-symlink",
		Cmd:      "readlink " + opensslConfPath,
		Contains: "openssl.cnf",
	})
	probe(Probe{
		Name:     "image: sdk-absent",
		Cmd:      "dotnet --list-sdks | grep -q .",
		Polarity: check.ExpectRejection,
	})
	probe(Probe{
		Name: "image: tls-handshake",
		Cmd:  fmt.Sprintf("echo | openssl s_client -connect %s -verify_return_error -brief", tlsTarget),
	})

	return checks
}
