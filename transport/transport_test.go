package transport

import (
	"net"
	"testing"

	"github.com/keyforge/shs1/identity"
	"github.com/keyforge/shs1/shs1"
)

func TestDialAcceptInteroperate(t *testing.T) {
	clientID, err := identity.New("alice", "alice")
	if err != nil {
		t.Fatal(err)
	}
	serverID, err := identity.New("bob", "bob")
	if err != nil {
		t.Fatal(err)
	}

	var appKey [32]byte
	copy(appKey[:], "0123456789abcdef0123456789abcdef")

	clientConn, serverConn := net.Pipe()

	clientDone := make(chan struct {
		outcome shs1.Outcome
		err     error
	}, 1)

	go func() {
		o, err := Dial(clientConn, ClientConfig{
			AppKey:   appKey,
			Identity: clientID,
			Expect:   serverID.Public.SigKey,
		})
		clientDone <- struct {
			outcome shs1.Outcome
			err     error
		}{o, err}
	}()

	serverOutcome, serverErr := Accept(serverConn, ServerConfig{
		AppKey:   appKey,
		Identity: serverID,
	})
	clientResult := <-clientDone

	if clientResult.err != nil {
		t.Fatalf("Dial: %v", clientResult.err)
	}
	if serverErr != nil {
		t.Fatalf("Accept: %v", serverErr)
	}

	co := clientResult.outcome
	if co.EncryptionKey != serverOutcome.DecryptionKey {
		t.Error("client encryption key != server decryption key")
	}
	if co.DecryptionKey != serverOutcome.EncryptionKey {
		t.Error("client decryption key != server encryption key")
	}
}

func TestAcceptRejectsWrongAppKey(t *testing.T) {
	clientID, err := identity.New("alice", "alice")
	if err != nil {
		t.Fatal(err)
	}
	serverID, err := identity.New("bob", "bob")
	if err != nil {
		t.Fatal(err)
	}

	var clientKey, serverKey [32]byte
	copy(clientKey[:], "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	copy(serverKey[:], "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	clientConn, serverConn := net.Pipe()

	go Dial(clientConn, ClientConfig{
		AppKey:   clientKey,
		Identity: clientID,
		Expect:   serverID.Public.SigKey,
	})

	_, err = Accept(serverConn, ServerConfig{
		AppKey:   serverKey,
		Identity: serverID,
	})
	if err == nil {
		t.Fatal("Accept succeeded despite mismatched application keys")
	}
}
