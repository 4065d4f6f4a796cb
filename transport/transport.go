// Package transport sequences the four SHS1 wire messages over a net.Conn
// and hands back the resulting shs1.Outcome. It is a convenience harness,
// not part of the protocol's correctness surface: the handshake core stays
// transport-agnostic, and this package adds no cryptographic schedule of
// its own, only XDR-encoded reads/writes of the core's fixed-size messages,
// the way sigma.SigmaKX.Initiator/Target sequence their own key exchange.
package transport

import (
	"fmt"
	"net"

	"github.com/davecgh/go-xdr/xdr2"
	"github.com/keyforge/shs1/identity"
	"github.com/keyforge/shs1/logging"
	"github.com/keyforge/shs1/shs1"
)

// ClientConfig is everything Dial needs to authenticate to a server and
// produce a shared session.
type ClientConfig struct {
	AppKey   [32]byte
	Identity *identity.Full
	Expect   [32]byte // server's expected long-term public key
	Log      *logging.Log
}

// ServerConfig is everything Accept needs to authenticate a client.
type ServerConfig struct {
	AppKey   [32]byte
	Identity *identity.Full
	Log      *logging.Log
}

func writeMsg(conn net.Conn, v interface{}) error {
	_, err := xdr.Marshal(conn, v)
	if err != nil {
		return fmt.Errorf("transport: marshal: %w", err)
	}
	return nil
}

func readMsg(conn net.Conn, v interface{}) error {
	_, err := xdr.Unmarshal(conn, v)
	if err != nil {
		return fmt.Errorf("transport: unmarshal: %w", err)
	}
	return nil
}

// Dial drives the client side of the handshake over conn. On any failure
// the connection is closed, exactly as sigma.SigmaKX.Initiator does, and
// the caller must not reuse it.
func Dial(conn net.Conn, cfg ClientConfig) (shs1.Outcome, error) {
	logf := cfg.Log

	eph, err := identity.NewEphemeral()
	if err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	c := shs1.NewClientState(&cfg.AppKey, &cfg.Identity.Public.SigKey, &cfg.Identity.PrivateKey,
		&eph.Public, &eph.Secret, &cfg.Expect)

	challengeC := c.ProduceChallenge()
	if logf != nil {
		logf.Trace("dial: writing challenge")
	}
	if err := writeMsg(conn, challengeC); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	var challengeS [shs1.ChallengeSize]byte
	if err := readMsg(conn, &challengeS); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}
	if !c.VerifyChallenge(challengeS) {
		conn.Close()
		if logf != nil {
			logf.Warn("dial: server challenge did not verify")
		}
		return shs1.Outcome{}, errAuthFailed
	}

	authC, err := c.ProduceAuth()
	if err != nil {
		conn.Close()
		if logf != nil {
			logf.Warn("dial: could not produce auth: %v", err)
		}
		return shs1.Outcome{}, errAuthFailed
	}
	if err := writeMsg(conn, authC); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	var accS [shs1.ServerAccSize]byte
	if err := readMsg(conn, &accS); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}
	if !c.VerifyAcc(accS) {
		conn.Close()
		if logf != nil {
			logf.Warn("dial: server acc did not verify")
		}
		return shs1.Outcome{}, errAuthFailed
	}

	out := c.Outcome()
	if logf != nil {
		redactOutcome(logf, out)
		logf.Info("dial: handshake complete")
	}
	return out, nil
}

// Accept drives the server side of the handshake over conn.
func Accept(conn net.Conn, cfg ServerConfig) (shs1.Outcome, error) {
	logf := cfg.Log

	eph, err := identity.NewEphemeral()
	if err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	s := shs1.NewServerState(&cfg.AppKey, &cfg.Identity.Public.SigKey, &cfg.Identity.PrivateKey,
		&eph.Public, &eph.Secret)

	var challengeC [shs1.ChallengeSize]byte
	if err := readMsg(conn, &challengeC); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}
	if !s.VerifyChallenge(challengeC) {
		conn.Close()
		if logf != nil {
			logf.Warn("accept: client challenge did not verify")
		}
		return shs1.Outcome{}, errAuthFailed
	}

	challengeS := s.ProduceChallenge()
	if err := writeMsg(conn, challengeS); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	var authC [shs1.ClientAuthSize]byte
	if err := readMsg(conn, &authC); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}
	if !s.VerifyAuth(authC) {
		conn.Close()
		if logf != nil {
			logf.Warn("accept: client auth did not verify")
		}
		return shs1.Outcome{}, errAuthFailed
	}

	accS := s.ProduceAcc()
	if err := writeMsg(conn, accS); err != nil {
		conn.Close()
		return shs1.Outcome{}, err
	}

	out := s.Outcome()
	if logf != nil {
		redactOutcome(logf, out)
		logf.Info("accept: handshake complete")
	}
	return out, nil
}

// redactOutcome registers a session's derived keys with logf so that any
// later log call formatting them (directly or via Outcome.String) cannot
// leak key material, regardless of caller discipline.
func redactOutcome(logf *logging.Log, out shs1.Outcome) {
	logf.Redact(out.EncryptionKey[:])
	logf.Redact(out.DecryptionKey[:])
}
