package imagecheck

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vertti/fipsgate/pkg/check"
	"github.com/vertti/fipsgate/pkg/version"
)

// ProviderVersion extracts the fips provider version from the openssl
// provider listing and compares it against the expected version.
func (c *Check) ProviderVersion(expected string) check.Result {
	result := check.Result{Name: "image: fips-provider-version"}

	want, err := version.Parse(expected)
	if err != nil {
		return result.Failf("invalid expected version %q: %v", expected, err)
	}

	stdout, stderr, err := c.Runner.RunCommand(c.Engine, "run", "--rm", c.Image,
		"/bin/sh", "-c", "openssl list -providers -verbose")
	if err != nil {
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			result.AddDetailf("stderr: %s", firstLine(trimmed))
		}
		return result.Failf("listing providers: %v", err)
	}

	got, err := extractProviderVersion(stdout)
	if err != nil {
		return result.Failf("%v", err)
	}

	result.AddDetailf("version: %s", got)
	if got.Compare(want) != 0 {
		return result.Failf("provider version %s != expected %s", got, want)
	}

	result.Status = check.StatusPass
	return result
}

// extractProviderVersion finds the version line of the fips provider
// section in `openssl list -providers -verbose` output.
func extractProviderVersion(listing string) (version.Version, error) {
	inFipsSection := false
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "fips") {
			inFipsSection = true
			continue
		}
		if inFipsSection && strings.HasPrefix(line, "version:") {
			return version.Extract(line)
		}
	}
	return version.Version{}, fmt.Errorf("no fips provider version in listing")
}

// RuntimeVersion checks the image's runtime lists at least the given
// version of Microsoft.NETCore.App.
func (c *Check) RuntimeVersion(minimum string) check.Result {
	result := check.Result{Name: "image: runtime-version"}

	want, err := version.Parse(minimum)
	if err != nil {
		return result.Failf("invalid minimum version %q: %v", minimum, err)
	}

	stdout, stderr, err := c.Runner.RunCommand(c.Engine, "run", "--rm", c.Image,
		"/bin/sh", "-c", "dotnet --list-runtimes")
	if err != nil {
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			result.AddDetailf("stderr: %s", firstLine(trimmed))
		}
		return result.Failf("listing runtimes: %v", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Microsoft.NETCore.App") {
			continue
		}
		got, err := version.Extract(line)
		if err != nil {
			return result.Failf("unparseable runtime line %q: %v", line, err)
		}
		result.AddDetailf("version: %s", got)
		if !got.GreaterThanOrEqual(want) {
			return result.Failf("runtime version %s < minimum %s", got, want)
		}
		result.Status = check.StatusPass
		return result
	}

	return result.Failf("Microsoft.NETCore.App not listed")
}

// Label checks the image metadata carries a label, optionally with an
// exact value. Labels live under Config.Labels in the engine's inspect
// JSON.
func (c *Check) Label(name, label, want string) check.Result {
	result := check.Result{Name: name}

	stdout, stderr, err := c.Runner.RunCommand(c.Engine, "image", "inspect", c.Image)
	if err != nil {
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			result.AddDetailf("stderr: %s", firstLine(trimmed))
		}
		return result.Failf("inspecting image: %v", err)
	}

	escaped := strings.ReplaceAll(label, ".", `\.`)
	value := gjson.Get(stdout, "0.Config.Labels."+escaped)
	if !value.Exists() {
		return result.Failf("label %q not present", label)
	}
	if want != "" && value.String() != want {
		return result.Failf("label %q = %q, want %q", label, value.String(), want)
	}

	result.Status = check.StatusPass
	result.AddDetailf("%s: %s", label, value.String())
	return result
}
