// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"fmt"
	"github.com/andrewhop/aws-c-cal/errors"
	"github.com/andrewhop/aws-c-cal/internal/der"
	"io"
	"runtime"
	"sync/atomic"
)

// Backend supplies the curve arithmetic behind a KeyPair. Every KeyPair
// operation dispatches through the backend bound at construction and panics
// if none is bound.
//
// The handle validates key-component preconditions before dispatching, so
// implementations may assume the components an operation needs are populated.
type Backend interface {
	// DestroyKeyPair releases whatever state the backend holds for the key
	// pair. It runs exactly once, when the last reference is released.
	DestroyKeyPair(kp *KeyPair)

	// DerivePublicKey computes the affine public point from the private
	// scalar. Coordinates may come back without leading zeros; the handle
	// re-pads them to the curve's coordinate size.
	DerivePublicKey(kp *KeyPair) (x, y []byte, err error)

	// SignMessage produces a DER-encoded ECDSA signature over a message
	// digest.
	SignMessage(kp *KeyPair, message []byte) ([]byte, error)

	// VerifySignature checks a DER-encoded ECDSA signature over a message
	// digest.
	VerifySignature(kp *KeyPair, message, signature []byte) error

	// SignatureLength returns an upper bound on the length of signatures
	// from SignMessage.
	SignatureLength(kp *KeyPair) int
}

// Generator is a Backend that can also create fresh key material.
type Generator interface {
	Backend

	// GenerateKeyPair returns the affine public coordinates and private
	// scalar of a newly generated key on the curve.
	GenerateKeyPair(rand io.Reader, curve CurveName) (x, y, d []byte, err error)
}

// KeyPair is a reference-counted handle to elliptic-curve key material. A new
// handle holds one reference; Acquire and Release adjust the count, and the
// Release that drops it to zero tears the handle down: the backend releases
// its state and the private scalar is wiped.
//
// Component buffers hold exactly CurveName.CoordinateByteSize bytes once
// populated. A handle may carry only a private scalar (DerivePublicKey fills
// in the public half) or only a public point (verify-only).
type KeyPair struct {
	refCount atomic.Int64

	curveName CurveName
	backend   Backend

	pubX  []byte
	pubY  []byte
	privD []byte
}

func newKeyPair(backend Backend, curve CurveName) (*KeyPair, error) {
	if backend == nil {
		panic("ecc: key pair constructed without a backend")
	}
	if curve.CoordinateByteSize() == 0 {
		return nil, errors.UnsupportedAlgorithmError(curve.String())
	}
	kp := &KeyPair{curveName: curve, backend: backend}
	kp.refCount.Store(1)
	return kp, nil
}

// copyComponent copies a key component into a fresh buffer of the curve's
// coordinate size, zero-extending short input on the left. Empty or oversized
// input fails.
func copyComponent(curve CurveName, component string, b []byte) ([]byte, error) {
	size := curve.CoordinateByteSize()
	if len(b) == 0 || len(b) > size {
		return nil, errors.InvalidKeyLengthError(
			fmt.Sprintf("ecc: %s is %d bytes, %v components take 1 to %d", component, len(b), curve, size))
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

// leftPad zero-extends b on the left to size bytes. math/big strips leading
// zeros, so coordinates coming out of a backend can be short.
func leftPad(b []byte, size int) ([]byte, error) {
	if len(b) > size {
		return nil, errors.InvalidKeyLengthError(
			fmt.Sprintf("ecc: component is %d bytes, limit is %d", len(b), size))
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

// zeroizeBytes overwrites the slice with zeros.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}

// NewKeyPairFromPrivateKey builds a key pair from a private scalar of at most
// the curve's coordinate size. The scalar is copied into a fresh buffer and
// zero-extended on the left if short.
func NewKeyPairFromPrivateKey(backend Backend, curve CurveName, d []byte) (*KeyPair, error) {
	kp, err := newKeyPair(backend, curve)
	if err != nil {
		return nil, err
	}
	if kp.privD, err = copyComponent(curve, "private scalar", d); err != nil {
		return nil, err
	}
	return kp, nil
}

// NewKeyPairFromPublicKey builds a verify-only key pair from affine public
// coordinates of at most the curve's coordinate size. Both are copied and
// zero-extended on the left if short.
func NewKeyPairFromPublicKey(backend Backend, curve CurveName, x, y []byte) (*KeyPair, error) {
	kp, err := newKeyPair(backend, curve)
	if err != nil {
		return nil, err
	}
	if kp.pubX, err = copyComponent(curve, "public x coordinate", x); err != nil {
		return nil, err
	}
	if kp.pubY, err = copyComponent(curve, "public y coordinate", y); err != nil {
		return nil, err
	}
	return kp, nil
}

// GenerateKeyPair creates a fresh key pair on the curve with the generator's
// arithmetic and entropy from rand.
func GenerateKeyPair(rand io.Reader, g Generator, curve CurveName) (*KeyPair, error) {
	kp, err := newKeyPair(g, curve)
	if err != nil {
		return nil, err
	}
	x, y, d, err := g.GenerateKeyPair(rand, curve)
	if err != nil {
		return nil, err
	}
	size := curve.CoordinateByteSize()
	if kp.pubX, err = leftPad(x, size); err != nil {
		return nil, err
	}
	if kp.pubY, err = leftPad(y, size); err != nil {
		return nil, err
	}
	if kp.privD, err = leftPad(d, size); err != nil {
		return nil, err
	}
	return kp, nil
}

// NewKeyPairFromASN1 builds a key pair from a DER key document such as an
// RFC 5915 private key or an X.509 SubjectPublicKeyInfo. The components the
// document carries are copied; a document with only a private scalar leaves
// the public half empty until DerivePublicKey.
func NewKeyPairFromASN1(backend Backend, encoded []byte) (*KeyPair, error) {
	decoder, err := der.NewDecoder(encoded)
	if err != nil {
		return nil, err
	}
	material, err := DecodeKeyPair(decoder)
	if err != nil {
		return nil, err
	}
	kp, err := newKeyPair(backend, material.Curve)
	if err != nil {
		return nil, err
	}
	if material.PrivateD != nil {
		if kp.privD, err = copyComponent(material.Curve, "private scalar", material.PrivateD); err != nil {
			return nil, err
		}
	}
	if material.PublicX != nil {
		if kp.pubX, err = copyComponent(material.Curve, "public x coordinate", material.PublicX); err != nil {
			return nil, err
		}
		if kp.pubY, err = copyComponent(material.Curve, "public y coordinate", material.PublicY); err != nil {
			return nil, err
		}
	}
	return kp, nil
}

// Acquire adds a reference. Safe to call from any goroutine.
func (kp *KeyPair) Acquire() {
	if kp == nil {
		return
	}
	kp.refCount.Add(1)
}

// Release drops a reference. Exactly one caller observes the count reaching
// zero, and that caller destroys the key pair, so teardown cannot run twice
// however releases race.
func (kp *KeyPair) Release() {
	if kp == nil {
		return
	}
	if kp.refCount.Add(-1) == 0 {
		kp.destroy()
	}
}

func (kp *KeyPair) destroy() {
	kp.mustBackend().DestroyKeyPair(kp)
	zeroizeBytes(kp.privD)
	kp.pubX, kp.pubY, kp.privD = nil, nil, nil
}

func (kp *KeyPair) mustBackend() Backend {
	if kp.backend == nil {
		panic("ecc: key pair operation dispatched without a backend")
	}
	return kp.backend
}

// CurveName returns the curve the key pair lives on.
func (kp *KeyPair) CurveName() CurveName {
	return kp.curveName
}

// PublicKey returns the affine public coordinates. The slices are views into
// the handle's buffers and are nil until the public half is populated.
func (kp *KeyPair) PublicKey() (x, y []byte) {
	return kp.pubX, kp.pubY
}

// PrivateKey returns the private scalar, or nil for a public-only handle. The
// slice is a view into the handle's buffer.
func (kp *KeyPair) PrivateKey() []byte {
	return kp.privD
}

// DerivePublicKey fills in the public coordinates from the private scalar.
// Callers must serialize it with respect to readers of the public half.
func (kp *KeyPair) DerivePublicKey() error {
	backend := kp.mustBackend()
	if kp.privD == nil {
		return errors.MissingRequiredKeyComponentError("ecc: deriving a public key requires the private scalar")
	}
	x, y, err := backend.DerivePublicKey(kp)
	if err != nil {
		return err
	}
	size := kp.curveName.CoordinateByteSize()
	if kp.pubX, err = leftPad(x, size); err != nil {
		return err
	}
	if kp.pubY, err = leftPad(y, size); err != nil {
		return err
	}
	return nil
}

// SignMessage signs a message digest, returning a DER-encoded ECDSA
// signature.
func (kp *KeyPair) SignMessage(message []byte) ([]byte, error) {
	backend := kp.mustBackend()
	if kp.privD == nil {
		return nil, errors.MissingRequiredKeyComponentError("ecc: signing requires the private scalar")
	}
	return backend.SignMessage(kp, message)
}

// VerifySignature checks a DER-encoded ECDSA signature over a message digest.
func (kp *KeyPair) VerifySignature(message, signature []byte) error {
	backend := kp.mustBackend()
	if kp.pubX == nil || kp.pubY == nil {
		return errors.MissingRequiredKeyComponentError("ecc: verifying requires the public coordinates")
	}
	return backend.VerifySignature(kp, message, signature)
}

// SignatureLength returns an upper bound on the length of signatures from
// SignMessage, suitable for sizing buffers.
func (kp *KeyPair) SignatureLength() int {
	return kp.mustBackend().SignatureLength(kp)
}
