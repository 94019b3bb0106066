package ecc

import (
	"bytes"
	"crypto/rand"
	"github.com/andrewhop/aws-c-cal/errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
)

// countingBackend records contract calls so lifecycle tests can observe them.
// Derived coordinates come back one byte short, the way math/big strips
// leading zeros.
type countingBackend struct {
	destroys atomic.Int32
}

func (b *countingBackend) DestroyKeyPair(kp *KeyPair) {
	b.destroys.Add(1)
}

func (b *countingBackend) DerivePublicKey(kp *KeyPair) (x, y []byte, err error) {
	size := kp.CurveName().CoordinateByteSize()
	return bytes.Repeat([]byte{0x01}, size-1), bytes.Repeat([]byte{0x02}, size-1), nil
}

func (b *countingBackend) SignMessage(kp *KeyPair, message []byte) ([]byte, error) {
	return []byte{0x30, 0x00}, nil
}

func (b *countingBackend) VerifySignature(kp *KeyPair, message, signature []byte) error {
	return nil
}

func (b *countingBackend) SignatureLength(kp *KeyPair) int {
	return 2*kp.CurveName().CoordinateByteSize() + 8
}

func (b *countingBackend) GenerateKeyPair(rand io.Reader, curve CurveName) (x, y, d []byte, err error) {
	size := curve.CoordinateByteSize()
	d = make([]byte, size)
	if _, err = io.ReadFull(rand, d); err != nil {
		return nil, nil, nil, err
	}
	return bytes.Repeat([]byte{0x0A}, size), bytes.Repeat([]byte{0x0B}, size), d, nil
}

func TestAcquireReleaseBalanced(t *testing.T) {
	backend := new(countingBackend)
	kp, err := NewKeyPairFromPrivateKey(backend, P256, bytes.Repeat([]byte{0x11}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				kp.Acquire()
				kp.Release()
			}
		}()
	}
	wg.Wait()

	if n := backend.destroys.Load(); n != 0 {
		t.Fatalf("Expected no destroys under balanced acquire/release, got %d", n)
	}
	if n := kp.refCount.Load(); n != 1 {
		t.Fatalf("Expected only the owning reference, got count %d", n)
	}

	kp.Release()
	if n := backend.destroys.Load(); n != 1 {
		t.Fatalf("Expected exactly one destroy, got %d", n)
	}
}

func TestConcurrentFinalRelease(t *testing.T) {
	const holders = 8
	backend := new(countingBackend)
	kp, err := NewKeyPairFromPrivateKey(backend, P256, bytes.Repeat([]byte{0x12}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	for i := 0; i < holders-1; i++ {
		kp.Acquire()
	}

	var wg sync.WaitGroup
	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kp.Release()
		}()
	}
	wg.Wait()

	if n := backend.destroys.Load(); n != 1 {
		t.Fatalf("Expected exactly one destroy, got %d", n)
	}
}

func TestNilKeyPairLifecycle(t *testing.T) {
	var kp *KeyPair
	kp.Acquire()
	kp.Release()
}

func TestDestroyWipesPrivateScalar(t *testing.T) {
	backend := new(countingBackend)
	kp, err := NewKeyPairFromPrivateKey(backend, P256, bytes.Repeat([]byte{0x13}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}

	scalar := kp.privD
	kp.Release()

	for _, b := range scalar {
		if b != 0 {
			t.Fatal("Private scalar was not wiped on destroy")
		}
	}
	if kp.PrivateKey() != nil {
		t.Error("Expected the handle to drop its component buffers")
	}
}

func TestOperationWithoutBackendPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected a panic dispatching without a backend")
		}
	}()
	kp := &KeyPair{curveName: P256, privD: bytes.Repeat([]byte{0x14}, 32)}
	_, _ = kp.SignMessage([]byte{0x01})
}

func TestConstructionWithoutBackendPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected a panic constructing without a backend")
		}
	}()
	_, _ = NewKeyPairFromPrivateKey(nil, P256, bytes.Repeat([]byte{0x15}, 32))
}

func TestFactoryValidation(t *testing.T) {
	backend := new(countingBackend)

	if _, err := NewKeyPairFromPrivateKey(backend, CurveName(9), bytes.Repeat([]byte{0x16}, 32)); err == nil {
		t.Error("Expected an error for an unsupported curve")
	} else if _, ok := err.(errors.UnsupportedAlgorithmError); !ok {
		t.Errorf("Expected UnsupportedAlgorithmError, got %T", err)
	}

	if _, err := NewKeyPairFromPrivateKey(backend, P256, nil); err == nil {
		t.Error("Expected an error for an empty private scalar")
	} else if _, ok := err.(errors.InvalidKeyLengthError); !ok {
		t.Errorf("Expected InvalidKeyLengthError, got %T", err)
	}

	x := bytes.Repeat([]byte{0x18}, 32)
	y := bytes.Repeat([]byte{0x19}, 33)
	if _, err := NewKeyPairFromPublicKey(backend, P256, x, y); err == nil {
		t.Error("Expected an error for an oversized coordinate")
	} else if _, ok := err.(errors.InvalidKeyLengthError); !ok {
		t.Errorf("Expected InvalidKeyLengthError, got %T", err)
	}
}

func TestFactoriesPadShortComponents(t *testing.T) {
	backend := new(countingBackend)

	kp, err := NewKeyPairFromPrivateKey(backend, P256, []byte{0x07, 0x17})
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	d := kp.PrivateKey()
	if len(d) != 32 {
		t.Fatalf("Expected a 32-byte scalar, got %d", len(d))
	}
	if !bytes.Equal(d, append(make([]byte, 30), 0x07, 0x17)) {
		t.Error("Expected the short scalar zero-extended on the left")
	}

	kp, err = NewKeyPairFromPublicKey(backend, P384, []byte{0x01}, bytes.Repeat([]byte{0x02}, 48))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	x, y := kp.PublicKey()
	if len(x) != 48 || len(y) != 48 {
		t.Fatalf("Expected 48-byte coordinates, got %d and %d", len(x), len(y))
	}
	if x[0] != 0x00 || x[47] != 0x01 {
		t.Error("Expected the short coordinate zero-extended on the left")
	}
}

func TestFactoriesCopyComponents(t *testing.T) {
	backend := new(countingBackend)

	d := bytes.Repeat([]byte{0x1A}, 32)
	kp, err := NewKeyPairFromPrivateKey(backend, P256, d)
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	d[0] = 0xFF
	if kp.PrivateKey()[0] != 0x1A {
		t.Error("Private scalar aliases caller memory")
	}

	x := bytes.Repeat([]byte{0x1B}, 32)
	y := bytes.Repeat([]byte{0x1C}, 32)
	kp, err = NewKeyPairFromPublicKey(backend, P256, x, y)
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	x[0] = 0xFF
	gotX, _ := kp.PublicKey()
	if gotX[0] != 0x1B {
		t.Error("Public coordinate aliases caller memory")
	}
}

func TestMissingComponentChecks(t *testing.T) {
	backend := new(countingBackend)

	public, err := NewKeyPairFromPublicKey(backend, P256,
		bytes.Repeat([]byte{0x1D}, 32), bytes.Repeat([]byte{0x1E}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	if _, err := public.SignMessage([]byte{0x01}); err == nil {
		t.Error("Expected an error signing without a private scalar")
	} else if _, ok := err.(errors.MissingRequiredKeyComponentError); !ok {
		t.Errorf("Expected MissingRequiredKeyComponentError, got %T", err)
	}
	if err := public.DerivePublicKey(); err == nil {
		t.Error("Expected an error deriving without a private scalar")
	} else if _, ok := err.(errors.MissingRequiredKeyComponentError); !ok {
		t.Errorf("Expected MissingRequiredKeyComponentError, got %T", err)
	}

	private, err := NewKeyPairFromPrivateKey(backend, P256, bytes.Repeat([]byte{0x1F}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	if err := private.VerifySignature([]byte{0x01}, []byte{0x30, 0x00}); err == nil {
		t.Error("Expected an error verifying without public coordinates")
	} else if _, ok := err.(errors.MissingRequiredKeyComponentError); !ok {
		t.Errorf("Expected MissingRequiredKeyComponentError, got %T", err)
	}
}

func TestDerivePublicKeyPadsCoordinates(t *testing.T) {
	backend := new(countingBackend)
	kp, err := NewKeyPairFromPrivateKey(backend, P256, bytes.Repeat([]byte{0x20}, 32))
	if err != nil {
		t.Fatal("Could not build key pair: ", err)
	}
	if err := kp.DerivePublicKey(); err != nil {
		t.Fatal("Could not derive public key: ", err)
	}

	x, y := kp.PublicKey()
	if len(x) != 32 || len(y) != 32 {
		t.Fatalf("Expected 32-byte coordinates, got %d and %d", len(x), len(y))
	}
	if x[0] != 0x00 || y[0] != 0x00 {
		t.Error("Expected short coordinates to be left-padded with zeros")
	}
}

func TestGenerateKeyPairPopulatesComponents(t *testing.T) {
	backend := new(countingBackend)
	kp, err := GenerateKeyPair(rand.Reader, backend, P384)
	if err != nil {
		t.Fatal("Could not generate key pair: ", err)
	}

	x, y := kp.PublicKey()
	if len(x) != 48 || len(y) != 48 || len(kp.PrivateKey()) != 48 {
		t.Error("Expected every component at the coordinate size")
	}
	if kp.CurveName() != P384 {
		t.Errorf("Expected P-384, got %v", kp.CurveName())
	}
	if kp.SignatureLength() != 2*48+8 {
		t.Errorf("Expected a 104-byte signature bound, got %d", kp.SignatureLength())
	}
}
