// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"crypto/elliptic"
	"github.com/cloudflare/circl/ecc/p384"
)

// NewCirclBackend returns a Generator like NewGenericBackend, but with the
// P-384 arithmetic provided by cloudflare/circl's optimized implementation.
// P-256 stays on the standard library.
func NewCirclBackend() *genericBackend {
	return &genericBackend{
		p256: elliptic.P256(),
		p384: p384.P384(),
	}
}
