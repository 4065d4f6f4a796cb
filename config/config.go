// Package config loads shs1peer's settings from an ini file, the way
// zkserver/settings loads zkserver's: defaults filled in by New, then
// overridden by whatever Load finds, with "~" expanded to the current
// user's home directory.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os/user"
	"strings"

	"github.com/vaughan0/go-ini"
)

var errIniNotFound = errors.New("not found")

// Config holds everything shs1peer needs to run one side of a handshake.
type Config struct {
	AppKey       [32]byte // application key, shared out-of-band with peers
	IdentityFile string   // path to this peer's marshaled long-term identity
	Listen       string   // address to listen on, when acting as server
	Dial         string   // address to dial, when acting as client
	ExpectPeer   string   // hex-encoded long-term public key expected of the peer (client only)

	LogFile    string
	TimeFormat string
	Debug      bool
	Trace      bool
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Listen:     "127.0.0.1:7613",
		LogFile:    "~/.shs1peer/shs1peer.log",
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// Load reads filename as an ini file and applies any settings found to c.
func (c *Config) Load(filename string) error {
	cfg, err := ini.LoadFile(filename)
	if err != nil {
		return err
	}

	usr, err := user.Current()
	if err != nil {
		return err
	}
	expand := func(p string) string {
		return strings.Replace(p, "~", usr.HomeDir, 1)
	}

	if appKey, ok := cfg.Get("", "appkey"); ok {
		raw, err := hex.DecodeString(appKey)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("appkey must be 64 hex characters (32 bytes)")
		}
		copy(c.AppKey[:], raw)
	}

	if identity, ok := cfg.Get("", "identity"); ok {
		c.IdentityFile = expand(identity)
	}

	if listen, ok := cfg.Get("", "listen"); ok {
		c.Listen = listen
	}

	if dial, ok := cfg.Get("", "dial"); ok {
		c.Dial = dial
	}

	if expectPeer, ok := cfg.Get("", "expectpeer"); ok {
		c.ExpectPeer = expectPeer
	}

	if logFile, ok := cfg.Get("log", "logfile"); ok {
		c.LogFile = expand(logFile)
	}
	c.LogFile = expand(c.LogFile)

	if err := iniBool(cfg, &c.Debug, "log", "debug"); err != nil && err != errIniNotFound {
		return err
	}
	if err := iniBool(cfg, &c.Trace, "log", "trace"); err != nil && err != errIniNotFound {
		return err
	}

	if timeFormat, ok := cfg.Get("log", "timeformat"); ok {
		c.TimeFormat = timeFormat
	}

	return nil
}

func iniBool(cfg ini.File, p *bool, section, key string) error {
	v, ok := cfg.Get(section, key)
	if !ok {
		return errIniNotFound
	}
	switch strings.ToLower(v) {
	case "yes":
		*p = true
	case "no":
		*p = false
	default:
		return fmt.Errorf("[%v]%v must be yes or no", section, key)
	}
	return nil
}

// DefaultRootPath returns ~/.shs1peer, the directory holding the default
// config file (shs1peer.conf) and log, mirroring zkutil's
// DefaultClientRootPath. The identity file has no default path.
func DefaultRootPath() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("user.Current: %v", err)
	}
	return usr.HomeDir + "/.shs1peer", nil
}
