// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"github.com/andrewhop/aws-c-cal/errors"
	"io"
	"math/big"
)

type genericBackend struct {
	p256 elliptic.Curve
	p384 elliptic.Curve
}

// NewGenericBackend returns a Generator backed by the standard library's
// constant-time P-256 and P-384 implementations.
func NewGenericBackend() *genericBackend {
	return &genericBackend{
		p256: elliptic.P256(),
		p384: elliptic.P384(),
	}
}

func (g *genericBackend) curve(name CurveName) (elliptic.Curve, error) {
	switch name {
	case P256:
		return g.p256, nil
	case P384:
		return g.p384, nil
	default:
		return nil, errors.UnsupportedAlgorithmError(name.String())
	}
}

func (g *genericBackend) DestroyKeyPair(kp *KeyPair) {
	// No backend-side state; the handle wipes its own buffers.
}

func (g *genericBackend) GenerateKeyPair(rand io.Reader, curve CurveName) (x, y, d []byte, err error) {
	c, err := g.curve(curve)
	if err != nil {
		return nil, nil, nil, err
	}
	priv, err := ecdsa.GenerateKey(c, rand)
	if err != nil {
		return nil, nil, nil, err
	}
	return priv.X.Bytes(), priv.Y.Bytes(), priv.D.Bytes(), nil
}

func (g *genericBackend) DerivePublicKey(kp *KeyPair) (x, y []byte, err error) {
	c, err := g.curve(kp.CurveName())
	if err != nil {
		return nil, nil, err
	}
	xInt, yInt := c.ScalarBaseMult(kp.PrivateKey())
	return xInt.Bytes(), yInt.Bytes(), nil
}

func (g *genericBackend) SignMessage(kp *KeyPair, message []byte) ([]byte, error) {
	c, err := g.curve(kp.CurveName())
	if err != nil {
		return nil, err
	}
	priv := &ecdsa.PrivateKey{D: new(big.Int).SetBytes(kp.PrivateKey()), PublicKey: ecdsa.PublicKey{Curve: c}}
	r, s, err := ecdsa.Sign(rand.Reader, priv, message)
	if err != nil {
		return nil, err
	}
	return encodeECDSASignature(r, s)
}

func (g *genericBackend) VerifySignature(kp *KeyPair, message, signature []byte) error {
	c, err := g.curve(kp.CurveName())
	if err != nil {
		return err
	}
	x, y := kp.PublicKey()
	pub := &ecdsa.PublicKey{X: new(big.Int).SetBytes(x), Y: new(big.Int).SetBytes(y), Curve: c}
	r, s, err := decodeECDSASignature(signature)
	if err != nil {
		return err
	}
	if !ecdsa.Verify(pub, message, r, s) {
		return errors.SignatureVerificationError("ecc: ecdsa signature mismatch")
	}
	return nil
}

func (g *genericBackend) SignatureLength(kp *KeyPair) int {
	// Two coordinate-sized integers plus the worst-case DER framing around
	// them.
	return 2*kp.CurveName().CoordinateByteSize() + 8
}
