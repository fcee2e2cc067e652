package lc3

// object.go holds the in-memory object-code container the assembler produces and its big-endian
// binary encoding. The object file is a bare stream of 16-bit words with no header beyond the
// leading origin word, no relocation, and no symbol information.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrObjectCode is the sentinel wrapped by object-code encoding errors.
var ErrObjectCode = errors.New("object code error")

// ObjectCode holds assembled machine code and the origin address it is meant to be loaded at.
type ObjectCode struct {
	Orig Word
	Code []Word
}

// MarshalBinary encodes the object as a big-endian byte stream: the origin word followed by each
// code word, in order. It implements encoding.BinaryMarshaler.
func (obj ObjectCode) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.BigEndian, obj.Orig); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrObjectCode, err)
	}

	if err := binary.Write(buf, binary.BigEndian, obj.Code); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrObjectCode, err)
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a big-endian byte stream produced by MarshalBinary. It implements
// encoding.BinaryUnmarshaler and is used by tests to check the object-code round trip.
func (obj *ObjectCode) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("%w: too small", ErrObjectCode)
	} else if len(b)%2 != 0 {
		return fmt.Errorf("%w: odd length", ErrObjectCode)
	}

	in := bytes.NewReader(b)

	if err := binary.Read(in, binary.BigEndian, &obj.Orig); err != nil {
		return fmt.Errorf("%w: %w", ErrObjectCode, err)
	}

	obj.Code = make([]Word, len(b)/2-1)
	if len(obj.Code) == 0 {
		return nil
	}

	if err := binary.Read(in, binary.BigEndian, obj.Code); err != nil {
		return fmt.Errorf("%w: %w", ErrObjectCode, err)
	}

	return nil
}
