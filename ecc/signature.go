// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"github.com/andrewhop/aws-c-cal/errors"
	"github.com/andrewhop/aws-c-cal/internal/der"
	"golang.org/x/crypto/cryptobyte/asn1"
	"math/big"
)

// encodeECDSASignature wraps the two ECDSA signature values in the standard
// DER layout, SEQUENCE { INTEGER r, INTEGER s }.
func encodeECDSASignature(r, s *big.Int) ([]byte, error) {
	enc := der.NewEncoder()
	enc.BeginSequence()
	enc.WriteUnsignedBigInt(r)
	enc.WriteUnsignedBigInt(s)
	enc.EndSequence()
	return enc.Encoded()
}

// decodeECDSASignature recovers r and s from a DER ECDSA signature. Like key
// decoding it scans the token stream rather than matching the document shape
// exactly.
func decodeECDSASignature(signature []byte) (r, s *big.Int, err error) {
	decoder, err := der.NewDecoder(signature)
	if err != nil {
		return nil, nil, err
	}
	var values []*big.Int
	for decoder.Next() {
		if decoder.TLVType() != asn1.INTEGER {
			continue
		}
		if len(values) == 2 {
			return nil, nil, errors.MalformedASN1Error("ecc: ecdsa signature has more than two integers")
		}
		values = append(values, new(big.Int).SetBytes(decoder.TLVBlob()))
	}
	if len(values) != 2 {
		return nil, nil, errors.MalformedASN1Error("ecc: ecdsa signature needs two integers")
	}
	return values[0], values[1], nil
}
