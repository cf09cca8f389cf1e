package pkcs12check

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io/fs"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vertti/fipsgate/pkg/check"
)

// mockFS is a test double for FileSystem.
type mockFS struct {
	entries []os.DirEntry
	files   map[string][]byte
	dirErr  error
}

func (m *mockFS) ReadDir(name string) ([]os.DirEntry, error) {
	if m.dirErr != nil {
		return nil, m.dirErr
	}
	return m.entries, nil
}

func (m *mockFS) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// fakeEntry implements os.DirEntry for mock directories.
type fakeEntry struct {
	name string
	dir  bool
}

func (f fakeEntry) Name() string               { return f.name }
func (f fakeEntry) IsDir() bool                { return f.dir }
func (f fakeEntry) Type() fs.FileMode          { return 0 }
func (f fakeEntry) Info() (fs.FileInfo, error) { return nil, nil }

// mockGetter is a test double for EnvGetter.
type mockGetter struct {
	value string
	set   bool
}

func (m *mockGetter) LookupEnv(key string) (string, bool) { return m.value, m.set }

func TestRun_EmptyDirectory(t *testing.T) {
	c := &Check{
		Dir:    "/certs",
		FS:     &mockFS{},
		Getter: &mockGetter{},
	}

	results := c.Run()

	if len(results) != 1 {
		t.Fatalf("Run() returned %d results, want 1", len(results))
	}
	if results[0].Status != check.StatusFail {
		t.Errorf("Status = %v, want %v", results[0].Status, check.StatusFail)
	}
	if results[0].Name != "pkcs12: /certs" {
		t.Errorf("Name = %q, want %q", results[0].Name, "pkcs12: /certs")
	}
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{
				fakeEntry{name: "readme.txt"},
				fakeEntry{name: "nested.pfx", dir: true},
				fakeEntry{name: "cert.pem"},
			},
		},
		Getter: &mockGetter{},
	}

	results := c.Run()

	// Nothing matched, so the empty-input failure is recorded.
	if len(results) != 1 || results[0].OK() {
		t.Errorf("Run() = %+v, want single empty-input failure", results)
	}
}

func TestRun_DirectoryUnreadable(t *testing.T) {
	c := &Check{
		Dir:    "/missing",
		FS:     &mockFS{dirErr: errors.New("permission denied")},
		Getter: &mockGetter{},
	}

	results := c.Run()

	if len(results) != 1 || results[0].OK() {
		t.Fatalf("Run() = %+v, want single failure", results)
	}
	if results[0].Err == nil {
		t.Error("Err = nil, want non-nil")
	}
}

func TestRun_GarbageContainerFails(t *testing.T) {
	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{fakeEntry{name: "legacy.pfx"}},
			files:   map[string][]byte{"/certs/legacy.pfx": []byte("not a pkcs12 container")},
		},
		Getter: &mockGetter{},
	}

	results := c.Run()

	if len(results) != 1 {
		t.Fatalf("Run() returned %d results, want 1", len(results))
	}
	if results[0].OK() {
		t.Error("garbage container decoded, want FAIL")
	}
	if results[0].Name != "pkcs12: legacy.pfx" {
		t.Errorf("Name = %q, want %q", results[0].Name, "pkcs12: legacy.pfx")
	}
}

func TestRun_OneResultPerContainer(t *testing.T) {
	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{
				fakeEntry{name: "a.pfx"},
				fakeEntry{name: "b.p12"},
				fakeEntry{name: "ignored.crt"},
			},
			files: map[string][]byte{
				"/certs/a.pfx": []byte("garbage"),
				"/certs/b.p12": []byte("garbage"),
			},
		},
		Getter: &mockGetter{},
	}

	results := c.Run()

	if len(results) != 2 {
		t.Fatalf("Run() returned %d results, want 2", len(results))
	}
	// One failing container never stops the next.
	for _, r := range results {
		if r.OK() {
			t.Errorf("%s decoded unexpectedly", r.Name)
		}
	}
}

// testIdentity generates a key pair and a matching self-signed
// certificate for decode stubs.
func testIdentity(t *testing.T) (*rsa.PrivateKey, *x509.Certificate) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "fipsgate-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parsing certificate: %v", err)
	}
	return key, cert
}

func TestRun_ValidContainerPasses(t *testing.T) {
	key, cert := testIdentity(t)

	var gotPassword string
	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{fakeEntry{name: "legacy.pfx"}},
			files:   map[string][]byte{"/certs/legacy.pfx": []byte("container bytes")},
		},
		Getter: &mockGetter{value: "hunter2", set: true},
		Decode: func(data []byte, password string) (interface{}, *x509.Certificate, error) {
			gotPassword = password
			return key, cert, nil
		},
	}

	results := c.Run()

	if len(results) != 1 {
		t.Fatalf("Run() returned %d results, want 1", len(results))
	}
	r := results[0]
	if !r.OK() {
		t.Fatalf("Run() = %+v, want PASS", r)
	}
	if r.Name != "pkcs12: legacy.pfx" {
		t.Errorf("Name = %q, want %q", r.Name, "pkcs12: legacy.pfx")
	}
	details := strings.Join(r.Details, "\n")
	if !strings.Contains(details, "subject: fipsgate-test") {
		t.Errorf("Details = %q, want subject detail", details)
	}
	if !strings.Contains(details, "key re-imported through restricted layer") {
		t.Errorf("Details = %q, want re-import detail", details)
	}
	if gotPassword != "hunter2" {
		t.Errorf("decode password = %q, want %q", gotPassword, "hunter2")
	}
}

func TestRun_UnsetPasswordFallsBackToEmpty(t *testing.T) {
	key, cert := testIdentity(t)

	var gotPassword string
	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{fakeEntry{name: "legacy.p12"}},
			files:   map[string][]byte{"/certs/legacy.p12": []byte("container bytes")},
		},
		Getter: &mockGetter{value: "stale", set: false},
		Decode: func(data []byte, password string) (interface{}, *x509.Certificate, error) {
			gotPassword = password
			return key, cert, nil
		},
	}

	results := c.Run()

	if len(results) != 1 || !results[0].OK() {
		t.Fatalf("Run() = %+v, want single PASS", results)
	}
	if gotPassword != "" {
		t.Errorf("decode password = %q, want empty for unset variable", gotPassword)
	}
}

func TestRun_ContainerWithoutKeyFails(t *testing.T) {
	_, cert := testIdentity(t)

	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{fakeEntry{name: "certonly.pfx"}},
			files:   map[string][]byte{"/certs/certonly.pfx": []byte("container bytes")},
		},
		Getter: &mockGetter{},
		Decode: func(data []byte, password string) (interface{}, *x509.Certificate, error) {
			return nil, cert, nil
		},
	}

	results := c.Run()

	if len(results) != 1 || results[0].OK() {
		t.Fatalf("Run() = %+v, want single failure", results)
	}
	if results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "no private key entry") {
		t.Errorf("Err = %v, want no private key entry", results[0].Err)
	}
}

func TestRun_ContainerWithoutCertificateFails(t *testing.T) {
	key, _ := testIdentity(t)

	c := &Check{
		Dir: "/certs",
		FS: &mockFS{
			entries: []os.DirEntry{fakeEntry{name: "keyonly.pfx"}},
			files:   map[string][]byte{"/certs/keyonly.pfx": []byte("container bytes")},
		},
		Getter: &mockGetter{},
		Decode: func(data []byte, password string) (interface{}, *x509.Certificate, error) {
			return key, nil, nil
		},
	}

	results := c.Run()

	if len(results) != 1 || results[0].OK() {
		t.Fatalf("Run() = %+v, want single failure", results)
	}
	if results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "no certificate entry") {
		t.Errorf("Err = %v, want no certificate entry", results[0].Err)
	}
}

func TestIsContainer(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"legacy.pfx", true},
		{"legacy.p12", true},
		{"LEGACY.PFX", true},
		{"cert.pem", false},
		{"pfx", false},
		{"archive.pfx.bak", false},
	}

	for _, tt := range tests {
		if got := isContainer(tt.name); got != tt.want {
			t.Errorf("isContainer(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReimport_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	if err := reimport(key); err != nil {
		t.Errorf("reimport(rsa) error = %v", err)
	}
}

func TestReimport_ECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	if err := reimport(key); err != nil {
		t.Errorf("reimport(ecdsa) error = %v", err)
	}
}

func TestReimport_UnsupportedKeyType(t *testing.T) {
	err := reimport("not a key")
	if err == nil {
		t.Fatal("reimport(string) error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "unsupported key type") {
		t.Errorf("error = %v, want unsupported key type", err)
	}
}
