package transport

import "errors"

// errAuthFailed is returned for every verification failure, regardless of
// cause (mismatched application key, wrong identity, corrupted message). No
// caller should branch on anything other than "handshake failed" — the
// protocol's identity-hiding property depends on a passive observer being
// unable to distinguish the reason from the network traffic alone.
var errAuthFailed = errors.New("transport: handshake verification failed")
