package der

import (
	"github.com/andrewhop/aws-c-cal/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
	"math/big"
)

// Encoder builds a DER document. Write methods append to the innermost open
// sequence, or to the document root when none is open, and record the first
// failure; Encoded reports it.
type Encoder struct {
	stack []*cryptobyte.Builder
	err   error
}

func NewEncoder() *Encoder {
	return &Encoder{stack: []*cryptobyte.Builder{new(cryptobyte.Builder)}}
}

func (e *Encoder) top() *cryptobyte.Builder {
	return e.stack[len(e.stack)-1]
}

// BeginSequence opens a SEQUENCE; writes that follow land inside it until the
// matching EndSequence.
func (e *Encoder) BeginSequence() {
	if e.err != nil {
		return
	}
	e.stack = append(e.stack, new(cryptobyte.Builder))
}

func (e *Encoder) EndSequence() {
	if e.err != nil {
		return
	}
	if len(e.stack) == 1 {
		e.err = errors.InvalidArgumentError("der: EndSequence without a matching BeginSequence")
		return
	}
	child := e.top()
	e.stack = e.stack[:len(e.stack)-1]
	contents, err := child.Bytes()
	if err != nil {
		e.err = err
		return
	}
	e.top().AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(contents)
	})
}

// WriteObjectIdentifier writes an OBJECT IDENTIFIER token around the given
// pre-encoded identifier octets.
func (e *Encoder) WriteObjectIdentifier(oid []byte) {
	if e.err != nil {
		return
	}
	if len(oid) == 0 {
		e.err = errors.InvalidArgumentError("der: empty object identifier")
		return
	}
	e.top().AddASN1(asn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
		b.AddBytes(oid)
	})
}

func (e *Encoder) WriteOctetString(data []byte) {
	if e.err != nil {
		return
	}
	e.top().AddASN1OctetString(data)
}

// WriteBitString writes data as a BIT STRING with no unused bits.
func (e *Encoder) WriteBitString(data []byte) {
	if e.err != nil {
		return
	}
	e.top().AddASN1BitString(data)
}

func (e *Encoder) WriteInteger(v int64) {
	if e.err != nil {
		return
	}
	e.top().AddASN1Int64(v)
}

// WriteUnsignedBigInt writes a non-negative INTEGER in its minimal DER form.
func (e *Encoder) WriteUnsignedBigInt(n *big.Int) {
	if e.err != nil {
		return
	}
	if n.Sign() < 0 {
		e.err = errors.InvalidArgumentError("der: negative integers are not supported")
		return
	}
	e.top().AddASN1BigInt(n)
}

// Encoded returns the finished document. It fails if any write failed or a
// sequence was left open.
func (e *Encoder) Encoded() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 1 {
		return nil, errors.InvalidArgumentError("der: unterminated sequence")
	}
	return e.stack[0].Bytes()
}
