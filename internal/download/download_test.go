package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchWritesBodyAndSetsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("hello rrf"))
	}))
	defer srv.Close()

	c := NewClient("secret-key")
	dest := filepath.Join(t.TempDir(), "out.rrf")

	n, err := c.Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if n != int64(len("hello rrf")) {
		t.Fatalf("want 9 bytes written, got %d", n)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("want Authorization header set, got %q", gotAuth)
	}

	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(body) != "hello rrf" {
		t.Fatalf("want file contents %q, got %q", "hello rrf", body)
	}
}

func TestFetchErrorsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("")
	dest := filepath.Join(t.TempDir(), "out.rrf")
	if _, err := c.Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatalf("want error for 404 response")
	}
}

func TestVerifyChecksumMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.rrf")
	if err := os.WriteFile(path, []byte("umls data"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	sum := sha256.Sum256([]byte("umls data"))
	if err := VerifyChecksum(path, hex.EncodeToString(sum[:])); err != nil {
		t.Fatalf("VerifyChecksum: %v", err)
	}
}

func TestVerifyChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.rrf")
	if err := os.WriteFile(path, []byte("umls data"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := VerifyChecksum(path, "0000000000000000000000000000000000000000000000000000000000000000"); err == nil {
		t.Fatalf("want error for mismatched checksum")
	}
}
