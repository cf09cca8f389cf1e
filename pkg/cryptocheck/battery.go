// Package cryptocheck exercises the platform's own crypto bindings
// against a fixed plaintext. Under a FIPS-enforcing runtime every
// approved primitive must work and the disapproved digest must be
// refused; the battery records which side of that line each one lands
// on.
package cryptocheck

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/vertti/fipsgate/pkg/check"
)

// Battery returns the fixed in-process battery in run order. Each
// entry is independent; one failing never stops the others. The final
// entry carries ExpectRejection: MD5 succeeding means the runtime is
// not enforcing the approved algorithm set.
func Battery() []check.Spec {
	return []check.Spec{
		{Name: "crypto: sha256", Op: func() (string, error) { return digest(sha256.New, sha256.Size) }},
		{Name: "crypto: sha384", Op: func() (string, error) { return digest(sha512.New384, sha512.Size384) }},
		{Name: "crypto: sha512", Op: func() (string, error) { return digest(sha512.New, sha512.Size) }},
		{Name: "crypto: hmac-sha256", Op: keyedHash},
		{Name: "crypto: aes-256-gcm", Op: aesRoundTrip},
		{Name: "crypto: rsa-2048", Op: rsaSignVerify},
		{Name: "crypto: ecdsa-p256", Op: ecdsaSignVerify},
		{Name: "crypto: md5-rejected", Polarity: check.ExpectRejection, Op: md5Digest},
	}
}
