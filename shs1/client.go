package shs1

// ClientState holds one client's progress through a single SHS1 session. It
// is created by NewClientState, advanced through the four ordered steps
// ProduceChallenge, VerifyChallenge, ProduceAuth, VerifyAcc, and consumed by
// Outcome. Each step may be called at most once, in order; the zero value is
// not usable.
type ClientState struct {
	// inputs
	appKey         [KeySize]byte
	ourPublic      [SignPublicSize]byte
	ourSecret      [SignSecretSize]byte
	ephPublic      [BoxPublicSize]byte
	ephSecret      [BoxSecretSize]byte
	serverLTPublic [SignPublicSize]byte // B_p, expected server identity

	// intermediates, written exactly once before they are read
	serverEphPublic   [BoxPublicSize]byte // b_p
	sharedSecret      [ScalarSize]byte    // a_s * b_p
	serverLtermShared [ScalarSize]byte    // a_s * B_p
	sharedHash        [HashSize]byte      // sha256(shared_secret)
	hello             [HelloSize]byte     // sig || A_p
	finalBoxKey       [32]byte            // box key seeding the outcome
}

// NewClientState initialises a client session. k is the application key,
// ourPublic/ourSecret the client's long-term Ed25519 identity, ephPublic/
// ephSecret a freshly generated Curve25519 ephemeral keypair, and
// serverPublic the long-term Ed25519 public key the client expects the
// server to present.
func NewClientState(k *[KeySize]byte, ourPublic *[SignPublicSize]byte, ourSecret *[SignSecretSize]byte,
	ephPublic *[BoxPublicSize]byte, ephSecret *[BoxSecretSize]byte, serverPublic *[SignPublicSize]byte) *ClientState {

	c := &ClientState{}
	copy(c.appKey[:], k[:])
	copy(c.ourPublic[:], ourPublic[:])
	copy(c.ourSecret[:], ourSecret[:])
	copy(c.ephPublic[:], ephPublic[:])
	copy(c.ephSecret[:], ephSecret[:])
	copy(c.serverLTPublic[:], serverPublic[:])
	return c
}

// ProduceChallenge emits the first message: hmac_K(a_p) || a_p.
func (c *ClientState) ProduceChallenge() [ChallengeSize]byte {
	tag := auth(&c.appKey, c.ephPublic[:])

	var out [ChallengeSize]byte
	copy(out[:AuthSize], tag[:])
	copy(out[AuthSize:], c.ephPublic[:])
	return out
}

// VerifyChallenge checks the server's challenge and stores its ephemeral
// public key. It returns false, and leaves the session dead, if the tag
// does not verify under the application key.
func (c *ClientState) VerifyChallenge(msg [ChallengeSize]byte) bool {
	var tag [AuthSize]byte
	copy(tag[:], msg[:AuthSize])
	pub := msg[AuthSize:]

	if !authVerify(&tag, pub, &c.appKey) {
		return false
	}

	copy(c.serverEphPublic[:], pub)
	return true
}

// ProduceAuth performs the client's half of the key schedule and emits the
// sealed hello. It fails if the short-term DH collapses to the all-zero
// point, if the server's long-term key does not convert to Curve25519, or if
// the long-term DH collapses to the all-zero point; the returned error is
// for local logs only (see errors.go).
func (c *ClientState) ProduceAuth() ([ClientAuthSize]byte, error) {
	var out [ClientAuthSize]byte

	shared, ok := scalarMult(&c.ephSecret, &c.serverEphPublic)
	if !ok {
		return out, errShortTermDH
	}
	c.sharedSecret = shared

	curveServerPub, ok := signPkToCurve(&c.serverLTPublic)
	if !ok {
		return out, errConvertServerKey
	}

	serverLtermShared, ok := scalarMult(&c.ephSecret, &curveServerPub)
	if !ok {
		return out, errLongTermDH
	}
	c.serverLtermShared = serverLtermShared

	c.sharedHash = sha256Sum(c.sharedSecret[:])

	toSign := make([]byte, 0, KeySize+SignPublicSize+HashSize)
	toSign = append(toSign, c.appKey[:]...)
	toSign = append(toSign, c.serverLTPublic[:]...)
	toSign = append(toSign, c.sharedHash[:]...)
	sig := signDetached(&c.ourSecret, toSign)

	copy(c.hello[:SigSize], sig[:])
	copy(c.hello[SigSize:], c.ourPublic[:])

	boxKeyPreimage := make([]byte, 0, KeySize+2*ScalarSize)
	boxKeyPreimage = append(boxKeyPreimage, c.appKey[:]...)
	boxKeyPreimage = append(boxKeyPreimage, c.sharedSecret[:]...)
	boxKeyPreimage = append(boxKeyPreimage, c.serverLtermShared[:]...)
	boxKey := sha256Sum(boxKeyPreimage)

	box := sealZero(c.hello[:], &boxKey)
	copy(out[:], box)
	return out, nil
}

// VerifyAcc opens and verifies the server's acc message, completing mutual
// authentication. On success the session's final box key is retained for
// Outcome.
func (c *ClientState) VerifyAcc(msg [ServerAccSize]byte) bool {
	curveOurSecret := signSkToCurve(&c.ourSecret)

	clientLtermShared, ok := scalarMult(&curveOurSecret, &c.serverEphPublic)
	if !ok {
		return false
	}

	preimage := make([]byte, 0, KeySize+3*ScalarSize)
	preimage = append(preimage, c.appKey[:]...)
	preimage = append(preimage, c.sharedSecret[:]...)
	preimage = append(preimage, c.serverLtermShared[:]...)
	preimage = append(preimage, clientLtermShared[:]...)
	finalBoxKey := sha256Sum(preimage)

	plain, ok := openZero(msg[:], &finalBoxKey)
	if !ok || len(plain) != SigSize {
		return false
	}
	var serverSig [SigSize]byte
	copy(serverSig[:], plain)

	expected := make([]byte, 0, KeySize+HelloSize+HashSize)
	expected = append(expected, c.appKey[:]...)
	expected = append(expected, c.hello[:]...)
	expected = append(expected, c.sharedHash[:]...)

	if !signVerifyDetached(&serverSig, expected, &c.serverLTPublic) {
		return false
	}

	c.finalBoxKey = finalBoxKey
	return true
}

// Outcome derives the final session keys and nonces. It must only be called
// after a successful VerifyAcc.
func (c *ClientState) Outcome() Outcome {
	return deriveOutcome(&c.finalBoxKey, &c.appKey, &c.serverLTPublic, &c.ourPublic, &c.serverEphPublic, &c.ephPublic)
}
