package shs1

import "errors"

// These distinguish the three ways ProduceAuth can fail. The reference
// implementation surfaces them as distinct negative return codes (-1, -2)
// for debugging only; no caller in the corpus this package is grounded on
// ever inspects them, and per the protocol's identity-hiding property they
// must never be relayed to the remote peer. Treat them as opaque causes for
// local logs, not as a semantic signal.
var (
	errConvertServerKey = errors.New("shs1: could not convert server long-term key to curve25519")
	errLongTermDH       = errors.New("shs1: long-term diffie-hellman failed")
	errShortTermDH      = errors.New("shs1: short-term diffie-hellman failed")
)
