package shs1

import "encoding/hex"

// Outcome is the symmetric session a completed handshake produces: a key
// and starting nonce for each direction. EncryptionKey/EncryptionNonce seed
// this peer's outbound stream; DecryptionKey/DecryptionNonce seed its
// inbound stream. For a successful handshake between client and server,
// client.EncryptionKey == server.DecryptionKey and vice versa, and likewise
// for the nonces.
type Outcome struct {
	EncryptionKey   [32]byte
	EncryptionNonce [24]byte
	DecryptionKey   [32]byte
	DecryptionNonce [24]byte
}

// String renders the outcome for display/debugging. It includes key
// material, so callers should never log it at a level that reaches a
// shared log file outside local interop testing.
func (o Outcome) String() string {
	return "enc_key=" + hex.EncodeToString(o.EncryptionKey[:]) +
		" enc_nonce=" + hex.EncodeToString(o.EncryptionNonce[:]) +
		" dec_key=" + hex.EncodeToString(o.DecryptionKey[:]) +
		" dec_nonce=" + hex.EncodeToString(o.DecryptionNonce[:])
}

// deriveOutcome implements the shared final hash/HMAC schedule used by both
// client and server outcome derivations. ourEphPublic/
// peerEphPublic and ourLTPublic/peerLTPublic must be supplied from the
// caller's point of view: "peer" keys seed the encryption (outbound) side,
// "own" keys seed the decryption (inbound) side.
func deriveOutcome(finalBoxKey *[32]byte, appKey *[KeySize]byte, peerLTPublic *[SignPublicSize]byte,
	ownLTPublic *[SignPublicSize]byte, peerEphPublic *[BoxPublicSize]byte, ownEphPublic *[BoxPublicSize]byte) Outcome {

	doubleHashed := sha256Sum(finalBoxKey[:])

	sendPreimage := make([]byte, 0, HashSize+SignPublicSize)
	sendPreimage = append(sendPreimage, doubleHashed[:]...)
	sendPreimage = append(sendPreimage, peerLTPublic[:]...)
	sendKey := sha256Sum(sendPreimage)

	recvPreimage := make([]byte, 0, HashSize+SignPublicSize)
	recvPreimage = append(recvPreimage, doubleHashed[:]...)
	recvPreimage = append(recvPreimage, ownLTPublic[:]...)
	recvKey := sha256Sum(recvPreimage)

	sendNonceTag := auth(appKey, peerEphPublic[:])
	recvNonceTag := auth(appKey, ownEphPublic[:])

	var out Outcome
	out.EncryptionKey = sendKey
	out.DecryptionKey = recvKey
	copy(out.EncryptionNonce[:], sendNonceTag[:24])
	copy(out.DecryptionNonce[:], recvNonceTag[:24])
	return out
}
