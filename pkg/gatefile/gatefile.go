// Package gatefile locates and parses the fipsgate.yaml parameter
// file. The file carries run parameters, not commands: the batteries
// themselves are fixed.
package gatefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the parameter file searched for during discovery.
const FileName = "fipsgate.yaml"

// Config carries the run parameters. Command-line flags override any
// value set here.
type Config struct {
	Image           string `yaml:"image"`
	Engine          string `yaml:"engine"`
	ProviderVersion string `yaml:"provider_version"`
	RuntimeVersion  string `yaml:"runtime_version"`
	PfxDir          string `yaml:"pfx_dir"`
	TLSTarget       string `yaml:"tls_target"`
	CertLabel       string `yaml:"cert_label"`
}

// Find returns the parameter file to use. An explicit path must exist;
// otherwise the search walks up from startDir, stopping at a .git
// repository root or the home directory.
func Find(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("parameter file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		if currentDir == homeDir {
			break
		}
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	return "", errors.New(FileName + " not found")
}

// Load reads and parses a parameter file. Unknown keys are rejected so
// a typoed parameter cannot silently loosen the run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading the discovered parameter file
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
