package cryptocheck

import (
	"bytes"
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // exercised deliberately: a FIPS-restricted runtime must refuse it
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"hash"
)

// payload is the fixed plaintext every primitive operates on.
var payload = []byte("fipsgate approved-algorithm validation payload")

// hmacKey is fixed: the battery asserts algorithm availability, not
// key secrecy.
var hmacKey = []byte("fipsgate-keyed-hash-key")

// digest hashes the payload and verifies the digest length matches the
// algorithm's fixed output size.
func digest(newHash func() hash.Hash, wantSize int) (string, error) {
	h := newHash()
	h.Write(payload)
	sum := h.Sum(nil)
	if len(sum) != wantSize {
		return "", fmt.Errorf("digest length %d, want %d", len(sum), wantSize)
	}
	return fmt.Sprintf("digest-bytes: %d", len(sum)), nil
}

// keyedHash computes an HMAC-SHA256 over the payload.
func keyedHash() (string, error) {
	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(payload)
	sum := mac.Sum(nil)
	if len(sum) != sha256.Size {
		return "", fmt.Errorf("mac length %d, want %d", len(sum), sha256.Size)
	}
	return fmt.Sprintf("mac-bytes: %d", len(sum)), nil
}

// aesRoundTrip seals the payload with AES-256-GCM and opens it again.
// A byte-exact comparison decides the outcome even when no error
// surfaces from the cipher.
func aesRoundTrip() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("key generation: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("gcm init: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, payload, nil)
	opened, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	if !bytes.Equal(opened, payload) {
		return "", fmt.Errorf("round-trip mismatch: got %d bytes", len(opened))
	}
	return "round-trip: byte-exact", nil
}

// rsaSignVerify generates a 2048-bit key and runs a SHA-256/PKCS#1v1.5
// sign-then-verify round-trip.
func rsaSignVerify() (string, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", fmt.Errorf("key generation: %w", err)
	}

	sum := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, sum[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, sum[:], sig); err != nil {
		return "", fmt.Errorf("verify: %w", err)
	}
	return "key-bits: 2048", nil
}

// ecdsaSignVerify generates a P-256 key and runs an ASN.1
// sign-then-verify round-trip.
func ecdsaSignVerify() (string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("key generation: %w", err)
	}

	sum := sha256.Sum256(payload)
	sig, err := ecdsa.SignASN1(rand.Reader, key, sum[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	if !ecdsa.VerifyASN1(&key.PublicKey, sum[:], sig) {
		return "", fmt.Errorf("signature did not verify")
	}
	return "curve: P-256", nil
}

// md5Digest computes an MD5 digest of the payload. A FIPS-restricted
// runtime (GODEBUG=fips140=only) panics here; the executor's recover
// boundary turns that into the rejection the battery expects. On an
// unrestricted runtime the call succeeds and the check fails.
func md5Digest() (string, error) {
	sum := md5.Sum(payload)
	return fmt.Sprintf("digest-bytes: %d", len(sum)), nil
}
