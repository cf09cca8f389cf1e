// Package imagecheck inspects a FIPS base image from the outside,
// through the container engine CLI. Every probe runs a one-shot
// command in an ephemeral container (or an engine-level inspect) and
// classifies the result from the exit code and output text. Probes
// never mutate the image; re-running any probe is safe.
package imagecheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vertti/fipsgate/pkg/check"
)

// Config file locations inside the image.
const (
	opensslConfPath    = "/usr/lib/ssl/openssl.cnf"
	fipsModuleConfPath = "/usr/lib/ssl/fipsmodule.cnf"
)

// Check drives the external inspection battery against one image.
type Check struct {
	Engine string // container engine CLI, e.g. "docker" or "podman"
	Image  string
	Runner Runner // injected for testing
}

// Gate verifies the engine and the target image exist before any probe
// runs. A missing image is the one fatal condition of a run: the
// caller prints the error as remediation and exits without emitting a
// single check line.
func (c *Check) Gate() error {
	if _, err := c.Runner.LookPath(c.Engine); err != nil {
		return fmt.Errorf("container engine %q not found in PATH: %w", c.Engine, err)
	}

	_, stderr, err := c.Runner.RunCommand(c.Engine, "image", "inspect", c.Image)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("image %q is not available: %s\nbuild or pull it first, e.g.: %s pull %s",
			c.Image, msg, c.Engine, c.Image)
	}
	return nil
}

// Probe is one container inspection: a shell command run inside an
// ephemeral container, classified from its exit code and output.
type Probe struct {
	Name     string
	Cmd      string         // run inside the container via /bin/sh -c
	Contains string         // stdout must contain this (case-sensitive)
	Match    string         // regex stdout must match
	Polarity check.Polarity // ExpectRejection flips the classification
}

// Run executes one probe. Text matching fails closed: no match means
// failure under normal polarity.
func (c *Check) Run(p Probe) check.Result {
	result := check.Result{Name: p.Name}

	stdout, stderr, err := c.Runner.RunCommand(c.Engine, "run", "--rm", c.Image, "/bin/sh", "-c", p.Cmd)

	ok, reason := p.outcome(stdout, err)

	if p.Polarity == check.ExpectRejection {
		if ok {
			return result.Failf("unexpectedly succeeded, expected rejection")
		}
		// A rejection only counts if the command actually ran inside
		// the container. An engine that never started it proves
		// nothing about the image.
		if engineFailure(err, stderr) {
			result.AddDetailf("command: %s", p.Cmd)
			if trimmed := strings.TrimSpace(stderr); trimmed != "" {
				result.AddDetailf("stderr: %s", firstLine(trimmed))
			}
			return result.Failf("engine failure, not a rejection: %v", err)
		}
		result.Status = check.StatusPass
		result.AddDetailf("rejected: %s", reason)
		return result
	}

	if !ok {
		result.AddDetailf("command: %s", p.Cmd)
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			result.AddDetailf("stderr: %s", firstLine(trimmed))
		}
		return result.Failf("%s", reason)
	}

	result.Status = check.StatusPass
	return result
}

// outcome classifies the raw command result under normal polarity.
func (p Probe) outcome(stdout string, err error) (ok bool, reason string) {
	if err != nil {
		return false, fmt.Sprintf("command failed: %v", err)
	}
	if p.Contains != "" && !strings.Contains(stdout, p.Contains) {
		return false, fmt.Sprintf("output does not contain %q", p.Contains)
	}
	if p.Match != "" {
		re, reErr := check.CompileRegex(p.Match)
		if reErr != nil {
			return false, fmt.Sprintf("invalid pattern: %v", reErr)
		}
		if !re.MatchString(stdout) {
			return false, fmt.Sprintf("output does not match %q", p.Match)
		}
	}
	return true, ""
}

// engineFailure reports whether the error came from the engine itself
// rather than from the command inside the container. Engines reserve
// exit codes 125-127 for their own failures (daemon error, command
// not invocable, command not found); a daemon that is down reports on
// stderr without ever starting the container.
func engineFailure(err error, stderr string) bool {
	if err == nil {
		return false
	}
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code >= 125 && code <= 127 {
			return true
		}
	}
	msg := strings.ToLower(stderr)
	return strings.Contains(msg, "cannot connect to the docker daemon") ||
		strings.Contains(msg, "unable to connect to podman") ||
		strings.Contains(msg, "error during connect")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
