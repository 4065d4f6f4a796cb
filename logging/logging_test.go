package logging

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesPrefixedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shs1.log")

	l, err := New(path, "2006-01-02 15:04:05", "[XPT]")
	if err != nil {
		t.Fatal(err)
	}

	l.Info("hello %s", "world")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[XPT][INF] hello world") {
		t.Fatalf("unexpected log contents: %q", data)
	}
}

func TestDbgSuppressedByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shs1.log")
	l, err := New(path, "15:04:05", "[XPT]")
	if err != nil {
		t.Fatal(err)
	}

	l.Dbg("should not appear")
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "should not appear") {
		t.Fatal("Dbg wrote output while debug verbosity was disabled")
	}

	l.EnableDebug()
	l.Dbg("should appear")
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "should appear") {
		t.Fatal("Dbg did not write output once debug verbosity was enabled")
	}
}

func TestRedactScrubsSecretFromOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shs1.log")
	l, err := New(path, "15:04:05", "[XPT]")
	if err != nil {
		t.Fatal(err)
	}

	secret := []byte("topsecretsessionkeybytes1234567890")
	l.Redact(secret)

	l.Info("derived key %x", secret)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), hex.EncodeToString(secret)) {
		t.Fatalf("redacted secret leaked into log: %q", data)
	}
	if !strings.Contains(string(data), "[redacted]") {
		t.Fatalf("expected [redacted] placeholder in log: %q", data)
	}
}
