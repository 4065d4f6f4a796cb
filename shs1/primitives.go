// Package shs1 implements the client and server state machines of the
// Secret-Handshake v1 protocol: a mutually-authenticating, forward-secret
// key exchange over an untrusted byte stream, binding two long-term Ed25519
// identities and a shared application key into a pair of symmetric session
// keys and nonces.
package shs1

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/agl/ed25519"
	"github.com/agl/ed25519/extra25519"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/secretbox"
)

// Fixed sizes of the cipher suite named by the protocol.
const (
	KeySize        = 32 // application key / auth key
	SignPublicSize = 32 // Ed25519 public key
	SignSecretSize = 64 // Ed25519 secret key
	BoxPublicSize  = 32 // Curve25519 public key
	BoxSecretSize  = 32 // Curve25519 secret key
	ScalarSize     = 32 // scalarmult output
	HashSize       = 32 // SHA-256 digest
	AuthSize       = 32 // HMAC tag
	SigSize        = 64 // Ed25519 signature

	HelloSize      = SigSize + SignPublicSize       // 96
	ChallengeSize  = AuthSize + BoxPublicSize       // 64
	ClientAuthSize = HelloSize + secretbox.Overhead // 112
	ServerAccSize  = SigSize + secretbox.Overhead   // 80
)

// zeroNonce is the constant all-zero 24-byte secretbox nonce used for every
// secretbox in the protocol. Each box_sec/final_box_key is used exactly once
// per session, so nonce reuse never occurs across messages.
var zeroNonce [24]byte

// auth computes the HMAC tag over msg under key. The cipher suite names
// HMAC-SHA-512-256 (libsodium's crypto_auth default primitive), which Go
// exposes directly as sha512.New512_256.
func auth(key *[KeySize]byte, msg []byte) [AuthSize]byte {
	m := hmac.New(sha512.New512_256, key[:])
	m.Write(msg)
	var tag [AuthSize]byte
	copy(tag[:], m.Sum(nil))
	return tag
}

// authVerify reports whether tag is the HMAC of msg under key, in constant
// time.
func authVerify(tag *[AuthSize]byte, msg []byte, key *[KeySize]byte) bool {
	want := auth(key, msg)
	return hmac.Equal(tag[:], want[:])
}

// scalarMult performs the Curve25519 Diffie-Hellman operation. It reports
// false if the result is the all-zero point, which happens for low-order
// public keys such as the curve's identity element.
func scalarMult(sec *[BoxSecretSize]byte, pub *[BoxPublicSize]byte) (shared [ScalarSize]byte, ok bool) {
	curve25519.ScalarMult(&shared, sec, pub)
	ok = !isZero(shared[:])
	return shared, ok
}

func isZero(b []byte) bool {
	var v byte
	for _, c := range b {
		v |= c
	}
	return v == 0
}

// signPkToCurve converts an Ed25519 public key to its Curve25519
// counterpart. It fails for off-curve/malformed keys.
func signPkToCurve(pk *[SignPublicSize]byte) (curvePub [BoxPublicSize]byte, ok bool) {
	ok = extra25519.PublicKeyToCurve25519(&curvePub, pk)
	return curvePub, ok
}

// signSkToCurve converts an Ed25519 secret key to its Curve25519
// counterpart. The conversion is a deterministic hash of the seed half of
// the key and cannot fail.
func signSkToCurve(sk *[SignSecretSize]byte) (curveSec [BoxSecretSize]byte) {
	extra25519.PrivateKeyToCurve25519(&curveSec, sk)
	return curveSec
}

func sha256Sum(msg []byte) [HashSize]byte {
	return sha256.Sum256(msg)
}

func signDetached(sk *[SignSecretSize]byte, msg []byte) [SigSize]byte {
	return *ed25519.Sign(sk, msg)
}

func signVerifyDetached(sig *[SigSize]byte, msg []byte, pk *[SignPublicSize]byte) bool {
	return ed25519.Verify(pk, msg, sig)
}

// sealZero seals msg under key with the protocol's constant zero nonce.
func sealZero(msg []byte, key *[32]byte) []byte {
	return secretbox.Seal(nil, msg, &zeroNonce, key)
}

// openZero opens box under key with the protocol's constant zero nonce.
func openZero(box []byte, key *[32]byte) ([]byte, bool) {
	return secretbox.Open(nil, box, &zeroNonce, key)
}

