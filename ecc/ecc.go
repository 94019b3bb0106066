// Package ecc implements a curve-agnostic interface for ECDSA key pairs on
// the NIST curves.
package ecc

import (
	"bytes"
	"fmt"
	"github.com/andrewhop/aws-c-cal/errors"
)

// CurveName identifies a supported elliptic curve. The zero value does not
// name a curve.
type CurveName uint8

const (
	P256 CurveName = 1
	P384 CurveName = 2
)

type CurveInfo struct {
	Name  string
	Curve CurveName
	Oid   []byte
}

var Curves = []CurveInfo{
	{
		Name:  "P-256",
		Curve: P256,
		Oid:   []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x03, 0x01, 0x07},
	},
	{
		Name:  "P-384",
		Curve: P384,
		Oid:   []byte{0x2B, 0x81, 0x04, 0x00, 0x22},
	},
}

func findByCurve(c CurveName) *CurveInfo {
	for i := range Curves {
		if Curves[i].Curve == c {
			return &Curves[i]
		}
	}
	return nil
}

func (c CurveName) String() string {
	if info := findByCurve(c); info != nil {
		return info.Name
	}
	return fmt.Sprintf("unknown curve %d", uint8(c))
}

// CoordinateByteSize returns the byte width of one affine point coordinate,
// which is also the width of the private scalar, or 0 for an unsupported
// curve.
func (c CurveName) CoordinateByteSize() int {
	switch c {
	case P256:
		return 32
	case P384:
		return 48
	default:
		return 0
	}
}

// CurveNameFromOID resolves DER object identifier contents octets to a curve
// name.
func CurveNameFromOID(oid []byte) (CurveName, error) {
	for i := range Curves {
		if bytes.Equal(Curves[i].Oid, oid) {
			return Curves[i].Curve, nil
		}
	}
	return 0, errors.UnknownObjectIdentifierError(fmt.Sprintf("ecc: %x does not name a supported curve", oid))
}

// OIDFromCurveName returns the DER object identifier contents octets for a
// curve. The caller owns the returned slice.
func OIDFromCurveName(c CurveName) ([]byte, error) {
	info := findByCurve(c)
	if info == nil {
		return nil, errors.UnsupportedAlgorithmError(c.String())
	}
	return append([]byte(nil), info.Oid...), nil
}
