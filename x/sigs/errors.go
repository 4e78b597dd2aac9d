package sigs

import "github.com/iov-one/escrowd/errors"

// ErrInvalidSequence is returned when a signature does not carry the
// expected nonce of its signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
