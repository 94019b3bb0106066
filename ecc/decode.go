// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"fmt"
	"github.com/andrewhop/aws-c-cal/errors"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// DERDecoder is the token-stream view of a DER document that key decoding
// consumes. Next advances through the tag-length-value tokens in encounter
// order, with the contents of constructed types expanded in place; the
// accessors describe the token Next advanced to. der.Decoder provides it for
// byte-slice documents.
type DERDecoder interface {
	Next() bool
	TLVType() asn1.Tag
	TLVBlob() []byte
	TLVString() ([]byte, error)
}

// KeyMaterial is the outcome of decoding a DER key document. The byte slices
// are views into the decoded document, valid only while the underlying buffer
// is intact; the KeyPair factories copy them.
type KeyMaterial struct {
	Curve CurveName

	PublicX []byte
	PublicY []byte

	PrivateD []byte
}

// uncompressedPointTag leads a SEC 1 uncompressed point: 0x04 || X || Y.
const uncompressedPointTag = 0x04

// DecodeKeyPair scans a DER key document for elliptic-curve key material. It
// tolerates the layout differences between RFC 5915 private keys, PKCS #8
// documents, and X.509 SubjectPublicKeyInfo rather than matching any shape
// exactly: the curve is taken from the last object identifier naming a
// supported curve, and key components from the first two string tokens,
// classified by length alone. A string of the curve's coordinate size is the
// private scalar; one of 2*size+1 bytes is an uncompressed public point,
// split into its X and Y halves.
func DecodeKeyPair(decoder DERDecoder) (KeyMaterial, error) {
	var parts [2][]byte
	nextPart := 0
	recognized := false
	var curve CurveName

	for decoder.Next() {
		switch decoder.TLVType() {
		case asn1.OBJECT_IDENTIFIER:
			// Key documents carry other identifiers too; only one names a
			// supported curve.
			if name, err := CurveNameFromOID(decoder.TLVBlob()); err == nil {
				curve = name
				recognized = true
			}
		case asn1.BIT_STRING, asn1.OCTET_STRING:
			if nextPart == len(parts) {
				continue
			}
			s, err := decoder.TLVString()
			if err != nil {
				return KeyMaterial{}, err
			}
			parts[nextPart] = s
			nextPart++
		}
	}

	if !recognized {
		return KeyMaterial{}, errors.UnknownObjectIdentifierError("ecc: no object identifier names a supported curve")
	}

	coordinateSize := curve.CoordinateByteSize()
	publicBlobSize := 2*coordinateSize + 1

	var privateKey, publicKey []byte
	for _, part := range parts[:nextPart] {
		switch len(part) {
		case 0:
			// An empty string token consumes a slot but carries nothing.
		case coordinateSize:
			privateKey = part
		case publicBlobSize:
			publicKey = part
		}
	}

	if privateKey == nil && publicKey == nil {
		return KeyMaterial{}, errors.MissingRequiredKeyComponentError("ecc: no string token has a key component's length")
	}

	material := KeyMaterial{Curve: curve}
	if privateKey != nil {
		material.PrivateD = privateKey
	}
	if publicKey != nil {
		if publicKey[0] != uncompressedPointTag {
			return KeyMaterial{}, errors.UnsupportedKeyFormatError(
				fmt.Sprintf("ecc: public point format 0x%02x is not the uncompressed encoding", publicKey[0]))
		}
		publicKey = publicKey[1:]
		material.PublicX = publicKey[:coordinateSize]
		material.PublicY = publicKey[coordinateSize:]
	}
	return material, nil
}
