// Package der reads and writes DER documents as flat streams of
// tag-length-value tokens.
package der

import (
	"fmt"
	"github.com/andrewhop/aws-c-cal/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// classConstructed is the identifier-octet bit marking a constructed type.
const classConstructed = 0x20

type token struct {
	tag      asn1.Tag
	contents []byte
}

// Decoder walks every tag-length-value token of a DER document in encounter
// order. Constructed types (SEQUENCE, SET, explicit context tags) appear as
// their own token, immediately followed by the tokens of their contents.
//
// Token contents are sub-slices of the decoder input; the caller must not
// mutate the input while token views are in use.
type Decoder struct {
	tokens []token
	pos    int
}

// NewDecoder parses the whole input eagerly and returns a decoder positioned
// before the first token.
func NewDecoder(input []byte) (*Decoder, error) {
	d := &Decoder{pos: -1}
	if err := d.parse(cryptobyte.String(input)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) parse(s cryptobyte.String) error {
	for !s.Empty() {
		var (
			contents cryptobyte.String
			tag      asn1.Tag
		)
		if !s.ReadAnyASN1(&contents, &tag) {
			return errors.MalformedASN1Error("der: truncated or invalid tag-length-value header")
		}
		if tag == asn1.BIT_STRING && len(contents) == 0 {
			return errors.MalformedASN1Error("der: bit string is missing its unused-bit count")
		}
		d.tokens = append(d.tokens, token{tag: tag, contents: contents})
		if tag&classConstructed != 0 {
			if err := d.parse(contents); err != nil {
				return err
			}
		}
	}
	return nil
}

// Next advances to the next token, returning false once the stream is
// exhausted. The other accessors refer to the token Next advanced to.
func (d *Decoder) Next() bool {
	if d.pos+1 >= len(d.tokens) {
		return false
	}
	d.pos++
	return true
}

// TLVType returns the identifier octet of the current token.
func (d *Decoder) TLVType() asn1.Tag {
	if d.pos < 0 {
		return 0
	}
	return d.tokens[d.pos].tag
}

// TLVBlob returns the raw contents octets of the current token.
func (d *Decoder) TLVBlob() []byte {
	if d.pos < 0 {
		return nil
	}
	return d.tokens[d.pos].contents
}

// TLVString returns the payload of the current OCTET STRING or BIT STRING
// token. For a BIT STRING the leading unused-bit count octet is stripped, so
// the result is the bit payload itself.
func (d *Decoder) TLVString() ([]byte, error) {
	switch tag := d.TLVType(); tag {
	case asn1.OCTET_STRING:
		return d.TLVBlob(), nil
	case asn1.BIT_STRING:
		return d.TLVBlob()[1:], nil
	default:
		return nil, errors.MismatchedDERTypeError(fmt.Sprintf("der: tag 0x%02x is not a string type", uint8(tag)))
	}
}
