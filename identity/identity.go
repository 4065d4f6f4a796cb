// Package identity manages the long-term Ed25519 signing identities and
// ephemeral Curve25519 keypairs that feed the shs1 handshake. It is the
// ambient wrapper around the raw key material the handshake core consumes:
// generation, a self-signed digest for storage/display, and XDR marshaling,
// the way zkidentity does for zkc's own long-term identities.
package identity

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/agl/ed25519"
	"github.com/davecgh/go-xdr/xdr2"
	"golang.org/x/crypto/curve25519"
)

var (
	ErrVerify = errors.New("identity: digest/signature verification failed")
)

const (
	IdentitySize = sha256.Size
)

// Public is the shareable half of a long-term identity: a name/nick pair,
// an Ed25519 signing key, a content digest over the above, and a
// self-signature over that digest.
type Public struct {
	Name      string
	Nick      string
	SigKey    [ed25519.PublicKeySize]byte
	Identity  [IdentitySize]byte // sha256(SigKey), a short handle
	Digest    [sha256.Size]byte
	Signature [ed25519.SignatureSize]byte
}

// Full is a long-term identity including its private signing key. Only
// Public ever leaves the local process.
type Full struct {
	Public     Public
	PrivateKey [ed25519.PrivateKeySize]byte
}

// New generates a fresh long-term identity, self-signing its digest.
func New(name, nick string) (*Full, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	fi := &Full{}
	fi.Public.Name = name
	fi.Public.Nick = nick
	copy(fi.Public.SigKey[:], pub[:])
	copy(fi.Public.Identity[:], identityOf(pub))
	copy(fi.PrivateKey[:], priv[:])

	if err := fi.recalculateDigest(); err != nil {
		return nil, err
	}

	return fi, nil
}

func identityOf(pub *[ed25519.PublicKeySize]byte) []byte {
	h := sha256.Sum256(pub[:])
	return h[:]
}

func (fi *Full) recalculateDigest() error {
	fi.Public.Digest = fi.Public.digest()
	sig := ed25519.Sign(&fi.PrivateKey, fi.Public.Digest[:])
	copy(fi.Public.Signature[:], sig[:])
	if !fi.Public.Verify() {
		return fmt.Errorf("identity: could not verify freshly generated signature")
	}
	return nil
}

func (p *Public) digest() [sha256.Size]byte {
	d := sha256.New()
	d.Write([]byte(p.Name))
	d.Write([]byte(p.Nick))
	d.Write(p.SigKey[:])
	d.Write(p.Identity[:])
	var out [sha256.Size]byte
	copy(out[:], d.Sum(nil))
	return out
}

// Verify checks the digest and self-signature of a Public identity.
func (p *Public) Verify() bool {
	if p.digest() != p.Digest {
		return false
	}
	return ed25519.Verify(&p.SigKey, p.Digest[:], &p.Signature)
}

// Fingerprint renders Identity the way a user would display it.
func (p *Public) Fingerprint() string {
	return base64.StdEncoding.EncodeToString(p.Identity[:])
}

func (p *Public) String() string {
	return hex.EncodeToString(p.Identity[:])
}

// Marshal XDR-encodes the public identity for storage or transfer.
func (p *Public) Marshal() ([]byte, error) {
	b := &bytes.Buffer{}
	if _, err := xdr.Marshal(b, p); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalPublic decodes and verifies a Public identity.
func UnmarshalPublic(data []byte) (*Public, error) {
	var p Public
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &p); err != nil {
		return nil, err
	}
	if !p.Verify() {
		return nil, ErrVerify
	}
	return &p, nil
}

// Marshal XDR-encodes the full identity, private key included. Callers are
// responsible for protecting the result at rest.
func (fi *Full) Marshal() ([]byte, error) {
	b := &bytes.Buffer{}
	if _, err := xdr.Marshal(b, fi); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalFull decodes a full identity previously produced by Marshal.
func UnmarshalFull(data []byte) (*Full, error) {
	var fi Full
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &fi); err != nil {
		return nil, err
	}
	return &fi, nil
}

// Ephemeral is a single-session Curve25519 keypair: a_p/a_s or b_p/b_s in
// the handshake's terms. It must be generated fresh for every session;
// reusing one across sessions gives up forward secrecy.
type Ephemeral struct {
	Public [32]byte
	Secret [32]byte
}

// NewEphemeral generates a fresh ephemeral Curve25519 keypair.
func NewEphemeral() (*Ephemeral, error) {
	e := &Ephemeral{}
	if _, err := io.ReadFull(rand.Reader, e.Secret[:]); err != nil {
		return nil, err
	}
	curve25519.ScalarBaseMult(&e.Public, &e.Secret)
	return e, nil
}
