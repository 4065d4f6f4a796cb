// Command shs1peer drives one side of an SHS1 handshake over TCP for
// manual interop testing. It does not implement a post-handshake
// box-stream transport; that remains out of scope for this repository.
package main

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"

	"github.com/keyforge/shs1/config"
	"github.com/keyforge/shs1/identity"
	"github.com/keyforge/shs1/logging"
	"github.com/keyforge/shs1/shs1"
	"github.com/keyforge/shs1/transport"
)

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "shs1peer: "+format+"\n", args...)
	os.Exit(1)
}

func loadOrCreateIdentity(cfg *config.Config) (*identity.Full, error) {
	if cfg.IdentityFile != "" {
		if data, err := os.ReadFile(cfg.IdentityFile); err == nil {
			return identity.UnmarshalFull(data)
		}
	}

	id, err := identity.New("shs1peer", "shs1peer")
	if err != nil {
		return nil, err
	}

	if cfg.IdentityFile != "" {
		data, err := id.Marshal()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(cfg.IdentityFile, data, 0600); err != nil {
			return nil, err
		}
	}

	return id, nil
}

func main() {
	cfg, err := ObtainSettings()
	if err != nil {
		fatal("%v", err)
	}

	log, err := logging.New(cfg.LogFile, cfg.TimeFormat, "[XPT]")
	if err != nil {
		fatal("could not open log file: %v", err)
	}
	if cfg.Debug {
		log.EnableDebug()
	}
	if cfg.Trace {
		log.EnableTrace()
	}

	id, err := loadOrCreateIdentity(cfg)
	if err != nil {
		fatal("identity: %v", err)
	}

	switch {
	case cfg.Dial != "":
		runClient(cfg, id, log)
	case cfg.Listen != "":
		runServer(cfg, id, log)
	default:
		fatal("config must set either dial or listen")
	}
}

func runClient(cfg *config.Config, id *identity.Full, log *logging.Log) {
	if cfg.ExpectPeer == "" {
		fatal("client mode requires expectpeer to be set")
	}
	expectRaw, err := hex.DecodeString(cfg.ExpectPeer)
	if err != nil || len(expectRaw) != 32 {
		fatal("expectpeer must be 64 hex characters (32 bytes)")
	}
	var expect [32]byte
	copy(expect[:], expectRaw)

	conn, err := net.Dial("tcp", cfg.Dial)
	if err != nil {
		fatal("dial %s: %v", cfg.Dial, err)
	}

	outcome, err := transport.Dial(conn, transport.ClientConfig{
		AppKey:   cfg.AppKey,
		Identity: id,
		Expect:   expect,
		Log:      log,
	})
	if err != nil {
		fatal("handshake failed: %v", err)
	}

	printOutcome(outcome)
}

func runServer(cfg *config.Config, id *identity.Full, log *logging.Log) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		fatal("listen %s: %v", cfg.Listen, err)
	}
	fmt.Fprintf(os.Stderr, "shs1peer: listening on %s, identity %s\n", cfg.Listen, id.Public.String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Error("accept: %v", err)
			continue
		}

		go func(conn net.Conn) {
			outcome, err := transport.Accept(conn, transport.ServerConfig{
				AppKey:   cfg.AppKey,
				Identity: id,
				Log:      log,
			})
			if err != nil {
				log.Warn("handshake from %s failed", conn.RemoteAddr())
				return
			}
			printOutcome(outcome)
		}(conn)
	}
}

func printOutcome(o shs1.Outcome) {
	fmt.Fprintln(os.Stdout, o.String())
}
