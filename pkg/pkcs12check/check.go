// Package pkcs12check imports legacy PKCS#12 certificate containers.
// The containers are encrypted with pre-FIPS algorithms, so parsing
// goes through an independent, unrestricted decoder; the extracted key
// material is then re-imported through the restricted crypto layer to
// prove it is usable without the container's legacy encryption.
package pkcs12check

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"

	"github.com/vertti/fipsgate/pkg/check"
)

// PasswordEnv names the variable holding the container password. An
// unset variable falls back to the empty string.
const PasswordEnv = "PFX_PASSWORD"

// DecodeFunc parses a PKCS#12 container into its private key and
// certificate.
type DecodeFunc func(data []byte, password string) (privateKey interface{}, cert *x509.Certificate, err error)

// Check imports every legacy certificate container found in Dir.
type Check struct {
	Dir    string
	FS     FileSystem // injected for testing
	Getter EnvGetter  // injected for testing
	Decode DecodeFunc // injected for testing; defaults to pkcs12.Decode
}

func (c *Check) decodeFunc() DecodeFunc {
	if c.Decode != nil {
		return c.Decode
	}
	return pkcs12.Decode
}

// Run scans Dir (non-recursive) for .pfx and .p12 files and returns
// one result per container, in name order. Zero matching files is a
// single recorded failure; the caller's battery continues either way.
func (c *Check) Run() []check.Result {
	password, _ := c.Getter.LookupEnv(PasswordEnv)

	entries, err := c.FS.ReadDir(c.Dir)
	if err != nil {
		r := check.Result{Name: fmt.Sprintf("pkcs12: %s", c.Dir)}
		return []check.Result{r.Failf("reading directory: %v", err)}
	}

	var results []check.Result
	for _, entry := range entries {
		if entry.IsDir() || !isContainer(entry.Name()) {
			continue
		}
		results = append(results, c.importFile(entry.Name(), password))
	}

	if len(results) == 0 {
		r := check.Result{Name: fmt.Sprintf("pkcs12: %s", c.Dir)}
		return []check.Result{r.Failf("no .pfx or .p12 files found")}
	}
	return results
}

func isContainer(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".pfx" || ext == ".p12"
}

func (c *Check) importFile(name, password string) check.Result {
	result := check.Result{Name: fmt.Sprintf("pkcs12: %s", name)}

	data, err := c.FS.ReadFile(filepath.Join(c.Dir, name))
	if err != nil {
		return result.Failf("reading container: %v", err)
	}

	key, cert, err := c.decodeFunc()(data, password)
	if err != nil {
		return result.Failf("decoding container: %v", err)
	}
	if key == nil {
		return result.Failf("no private key entry in container")
	}
	if cert == nil {
		return result.Failf("no certificate entry in container")
	}
	result.AddDetailf("subject: %s", cert.Subject.CommonName)

	if err := reimport(key); err != nil {
		return result.Failf("re-import through restricted layer: %v", err)
	}

	result.Status = check.StatusPass
	result.AddDetail("key re-imported through restricted layer")
	return result
}

// reimport exercises the extracted key through the restricted crypto
// layer with a sign/verify round-trip.
func reimport(key interface{}) error {
	sum := sha256.Sum256([]byte("fipsgate re-import probe"))

	switch k := key.(type) {
	case *rsa.PrivateKey:
		sig, err := rsa.SignPKCS1v15(rand.Reader, k, crypto.SHA256, sum[:])
		if err != nil {
			return fmt.Errorf("rsa sign: %w", err)
		}
		if err := rsa.VerifyPKCS1v15(&k.PublicKey, crypto.SHA256, sum[:], sig); err != nil {
			return fmt.Errorf("rsa verify: %w", err)
		}
	case *ecdsa.PrivateKey:
		sig, err := ecdsa.SignASN1(rand.Reader, k, sum[:])
		if err != nil {
			return fmt.Errorf("ecdsa sign: %w", err)
		}
		if !ecdsa.VerifyASN1(&k.PublicKey, sum[:], sig) {
			return fmt.Errorf("ecdsa signature did not verify")
		}
	default:
		return fmt.Errorf("unsupported key type %T", key)
	}
	return nil
}
