package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIni(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shs1peer.conf")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeIni(t, `
appkey = 0101010101010101010101010101010101010101010101010101010101010101
listen = 127.0.0.1:9999
dial = example.invalid:7613

[log]
debug = yes
trace = no
logfile = /tmp/shs1peer.log
timeformat = 15:04:05
`)

	c := New()
	if err := c.Load(path); err != nil {
		t.Fatal(err)
	}

	if c.Listen != "127.0.0.1:9999" {
		t.Errorf("Listen = %q", c.Listen)
	}
	if c.Dial != "example.invalid:7613" {
		t.Errorf("Dial = %q", c.Dial)
	}
	if !c.Debug {
		t.Error("Debug = false, want true")
	}
	if c.Trace {
		t.Error("Trace = true, want false")
	}
	if c.LogFile != "/tmp/shs1peer.log" {
		t.Errorf("LogFile = %q", c.LogFile)
	}
	want := [32]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	if c.AppKey != want {
		t.Errorf("AppKey = %x", c.AppKey)
	}
}

func TestLoadRejectsMalformedAppKey(t *testing.T) {
	path := writeIni(t, "appkey = not-hex\n")

	c := New()
	if err := c.Load(path); err == nil {
		t.Fatal("Load accepted a malformed appkey")
	}
}

func TestLoadRejectsInvalidBool(t *testing.T) {
	path := writeIni(t, "[log]\ndebug = maybe\n")

	c := New()
	if err := c.Load(path); err == nil {
		t.Fatal("Load accepted an invalid yes/no value")
	}
}
