// Package errors contains common error types for the elliptic-curve packages.
package errors

// UnknownObjectIdentifierError is returned when a DER document carries no
// object identifier naming a supported curve.
type UnknownObjectIdentifierError string

func (e UnknownObjectIdentifierError) Error() string {
	return "cal: unknown object identifier: " + string(e)
}

// UnsupportedAlgorithmError is returned when a curve name is outside the
// supported set.
type UnsupportedAlgorithmError string

func (e UnsupportedAlgorithmError) Error() string {
	return "cal: unsupported algorithm: " + string(e)
}

// MissingRequiredKeyComponentError is returned when key material lacks a
// component the requested operation needs.
type MissingRequiredKeyComponentError string

func (e MissingRequiredKeyComponentError) Error() string {
	return "cal: missing required key component: " + string(e)
}

// MalformedASN1Error is returned when a document cannot be parsed as DER.
type MalformedASN1Error string

func (e MalformedASN1Error) Error() string {
	return "cal: malformed ASN.1: " + string(e)
}

// MismatchedDERTypeError is returned when a DER token is accessed through an
// accessor for a different type.
type MismatchedDERTypeError string

func (e MismatchedDERTypeError) Error() string {
	return "cal: mismatched DER type: " + string(e)
}

// UnsupportedKeyFormatError is returned when key material uses an encoding
// the library does not handle, such as a compressed elliptic-curve point.
type UnsupportedKeyFormatError string

func (e UnsupportedKeyFormatError) Error() string {
	return "cal: unsupported key format: " + string(e)
}

// InvalidKeyLengthError is returned when a key component is empty or longer
// than its curve's coordinate size.
type InvalidKeyLengthError string

func (e InvalidKeyLengthError) Error() string {
	return "cal: invalid key length: " + string(e)
}

// SignatureVerificationError is returned when a signature does not verify
// against a message and public key.
type SignatureVerificationError string

func (e SignatureVerificationError) Error() string {
	return "cal: signature verification failed: " + string(e)
}

// InvalidArgumentError indicates that the caller misused an API, for example
// by closing a DER sequence that was never opened.
type InvalidArgumentError string

func (e InvalidArgumentError) Error() string {
	return "cal: invalid argument: " + string(e)
}
