package shs1

// ServerState holds one server's progress through a single SHS1 session. It
// is created by NewServerState, advanced through VerifyChallenge,
// ProduceChallenge, VerifyAuth, ProduceAcc, and consumed by Outcome. Each
// step may be called at most once, in order.
type ServerState struct {
	// inputs
	appKey    [KeySize]byte
	ourPublic [SignPublicSize]byte
	ourSecret [SignSecretSize]byte
	ephPublic [BoxPublicSize]byte
	ephSecret [BoxSecretSize]byte

	// intermediates, written exactly once before they are read
	clientEphPublic [BoxPublicSize]byte // a_p
	clientHello     [HelloSize]byte     // sig || client A_p
	sharedHash      [HashSize]byte      // sha256(b_s * a_p)
	clientPublic    [SignPublicSize]byte
	boxSec          [32]byte // final box key
}

// NewServerState initialises a server session. k is the application key,
// ourPublic/ourSecret the server's long-term Ed25519 identity, and
// ephPublic/ephSecret a freshly generated Curve25519 ephemeral keypair.
func NewServerState(k *[KeySize]byte, ourPublic *[SignPublicSize]byte, ourSecret *[SignSecretSize]byte,
	ephPublic *[BoxPublicSize]byte, ephSecret *[BoxSecretSize]byte) *ServerState {

	s := &ServerState{}
	copy(s.appKey[:], k[:])
	copy(s.ourPublic[:], ourPublic[:])
	copy(s.ourSecret[:], ourSecret[:])
	copy(s.ephPublic[:], ephPublic[:])
	copy(s.ephSecret[:], ephSecret[:])
	return s
}

// VerifyChallenge checks the client's challenge and stores its ephemeral
// public key.
func (s *ServerState) VerifyChallenge(msg [ChallengeSize]byte) bool {
	var tag [AuthSize]byte
	copy(tag[:], msg[:AuthSize])
	pub := msg[AuthSize:]

	if !authVerify(&tag, pub, &s.appKey) {
		return false
	}

	copy(s.clientEphPublic[:], pub)
	return true
}

// ProduceChallenge emits the server's challenge: hmac_K(b_p) || b_p.
func (s *ServerState) ProduceChallenge() [ChallengeSize]byte {
	tag := auth(&s.appKey, s.ephPublic[:])

	var out [ChallengeSize]byte
	copy(out[:AuthSize], tag[:])
	copy(out[AuthSize:], s.ephPublic[:])
	return out
}

// VerifyAuth is the protocol's most intricate step: it opens the client's
// sealed hello, recovers the client's long-term public key, and verifies
// the client's signature over the expected payload.
func (s *ServerState) VerifyAuth(msg [ClientAuthSize]byte) bool {
	sharedSecret, ok := scalarMult(&s.ephSecret, &s.clientEphPublic)
	if !ok {
		return false
	}

	curveOurSecret := signSkToCurve(&s.ourSecret)

	clientEphLtermShared, ok := scalarMult(&curveOurSecret, &s.clientEphPublic)
	if !ok {
		return false
	}

	intermediatePreimage := make([]byte, 0, KeySize+2*ScalarSize)
	intermediatePreimage = append(intermediatePreimage, s.appKey[:]...)
	intermediatePreimage = append(intermediatePreimage, sharedSecret[:]...)
	intermediatePreimage = append(intermediatePreimage, clientEphLtermShared[:]...)
	intermediateBoxKey := sha256Sum(intermediatePreimage)

	plain, ok := openZero(msg[:], &intermediateBoxKey)
	if !ok || len(plain) != HelloSize {
		return false
	}
	copy(s.clientHello[:], plain)
	copy(s.clientPublic[:], s.clientHello[SigSize:])

	curveClientPub, ok := signPkToCurve(&s.clientPublic)
	if !ok {
		return false
	}

	ltermEphClientShared, ok := scalarMult(&s.ephSecret, &curveClientPub)
	if !ok {
		return false
	}

	s.sharedHash = sha256Sum(sharedSecret[:])

	expected := make([]byte, 0, KeySize+SignPublicSize+HashSize)
	expected = append(expected, s.appKey[:]...)
	expected = append(expected, s.ourPublic[:]...)
	expected = append(expected, s.sharedHash[:]...)

	var clientSig [SigSize]byte
	copy(clientSig[:], s.clientHello[:SigSize])
	if !signVerifyDetached(&clientSig, expected, &s.clientPublic) {
		return false
	}

	finalPreimage := make([]byte, 0, KeySize+3*ScalarSize)
	finalPreimage = append(finalPreimage, s.appKey[:]...)
	finalPreimage = append(finalPreimage, sharedSecret[:]...)
	finalPreimage = append(finalPreimage, clientEphLtermShared[:]...)
	finalPreimage = append(finalPreimage, ltermEphClientShared[:]...)
	s.boxSec = sha256Sum(finalPreimage)

	return true
}

// ProduceAcc signs the transcript and seals it as the final message.
func (s *ServerState) ProduceAcc() [ServerAccSize]byte {
	toSign := make([]byte, 0, KeySize+HelloSize+HashSize)
	toSign = append(toSign, s.appKey[:]...)
	toSign = append(toSign, s.clientHello[:]...)
	toSign = append(toSign, s.sharedHash[:]...)
	sig := signDetached(&s.ourSecret, toSign)

	box := sealZero(sig[:], &s.boxSec)

	var out [ServerAccSize]byte
	copy(out[:], box)
	return out
}

// Outcome derives the final session keys and nonces. It must only be called
// after a successful VerifyAuth.
func (s *ServerState) Outcome() Outcome {
	return deriveOutcome(&s.boxSec, &s.appKey, &s.clientPublic, &s.ourPublic, &s.clientEphPublic, &s.ephPublic)
}
