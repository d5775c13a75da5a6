package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const wordSize = 32

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// DecodeParams decodes a head/tail encoded value sequence.
// Offsets of top level dynamic values are relative to the start of data.
func DecodeParams(types []ParamType, data []byte) ([]Token, error) {
	return decodeSequence(types, data, 0)
}

// DecodeInput decodes the call payload (calldata without selector).
func (f *Function) DecodeInput(payload []byte) ([]Token, error) {
	return DecodeParams(paramTypes(f.Inputs), payload)
}

func paramTypes(params []Param) []ParamType {
	types := make([]ParamType, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

// decodeSequence decodes consecutive head entries starting at base.
// Nested dynamic offsets inside the sequence are relative to base.
func decodeSequence(types []ParamType, data []byte, base int) ([]Token, error) {
	tokens := make([]Token, len(types))
	head := base
	for i, t := range types {
		token, err := decodeAt(t, data, base, head)
		if err != nil {
			return nil, err
		}
		tokens[i] = token
		head += t.headSize()
	}
	return tokens, nil
}

// decodeRepeated decodes count head entries of the same type starting at base.
func decodeRepeated(elem ParamType, count int, data []byte, base int) ([]Token, error) {
	elemSize := elem.headSize()
	maxCount := len(data) - base
	if elemSize > 0 {
		maxCount /= elemSize
	}
	if count > maxCount {
		return nil, decodeError("%d elements of %s exceed buffer (len=%d, start=%d)", count, elem, len(data), base)
	}

	tokens := make([]Token, count)
	for i := 0; i < count; i++ {
		token, err := decodeAt(elem, data, base, base+i*elemSize)
		if err != nil {
			return nil, err
		}
		tokens[i] = token
	}
	return tokens, nil
}

// decodeAt decodes a value whose head starts at head. base is the start of
// the enclosing region that dynamic offsets point into.
func decodeAt(t ParamType, data []byte, base, head int) (Token, error) {
	if !t.IsDynamic() {
		return decodeStatic(t, data, head)
	}

	offset, err := readSize(data, head)
	if err != nil {
		return Token{}, err
	}
	start := base + offset
	if start > len(data) {
		return Token{}, decodeError("offset %d out of bounds (len=%d)", start, len(data))
	}
	return decodeTail(t, data, start)
}

// decodeTail decodes the tail region of a dynamic value starting at start.
func decodeTail(t ParamType, data []byte, start int) (Token, error) {
	switch t.Kind {
	case StringKind, BytesKind:
		length, err := readSize(data, start)
		if err != nil {
			return Token{}, err
		}
		contentStart := start + wordSize
		if contentStart+length > len(data) {
			return Token{}, decodeError("%s of length %d at %d exceeds buffer (len=%d)", t, length, contentStart, len(data))
		}
		content := make([]byte, length)
		copy(content, data[contentStart:contentStart+length])
		if t.Kind == StringKind {
			return Token{Kind: StringKind, Str: string(content)}, nil
		}
		return Token{Kind: BytesKind, Bytes: content}, nil

	case ArrayKind:
		count, err := readSize(data, start)
		if err != nil {
			return Token{}, err
		}
		items, err := decodeRepeated(*t.Elem, count, data, start+wordSize)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: ArrayKind, Items: items}, nil

	case FixedArrayKind:
		items, err := decodeRepeated(*t.Elem, t.Size, data, start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: FixedArrayKind, Items: items}, nil

	case TupleKind:
		items, err := decodeSequence(paramTypes(t.Components), data, start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TupleKind, Items: items}, nil
	}

	return Token{}, decodeError("type %s is not dynamic", t)
}

// decodeStatic decodes a statically sized value in place.
func decodeStatic(t ParamType, data []byte, head int) (Token, error) {
	switch t.Kind {
	case FixedArrayKind, TupleKind:
		if size := t.headSize(); head < 0 || size > len(data)-head {
			return Token{}, decodeError("%s of %d bytes at %d exceeds buffer (len=%d)", t, size, head, len(data))
		}
	}

	switch t.Kind {
	case FixedArrayKind:
		elemSize := t.Elem.headSize()
		items := make([]Token, t.Size)
		for i := range items {
			item, err := decodeStatic(*t.Elem, data, head+i*elemSize)
			if err != nil {
				return Token{}, err
			}
			items[i] = item
		}
		return Token{Kind: FixedArrayKind, Items: items}, nil

	case TupleKind:
		items := make([]Token, len(t.Components))
		pos := head
		for i, c := range t.Components {
			item, err := decodeStatic(c.Type, data, pos)
			if err != nil {
				return Token{}, err
			}
			items[i] = item
			pos += c.Type.headSize()
		}
		return Token{Kind: TupleKind, Items: items}, nil
	}

	word, err := readWord(data, head)
	if err != nil {
		return Token{}, err
	}
	return decodeWord(t, word), nil
}

// decodeWord decodes an elementary type from a single 32 byte word.
func decodeWord(t ParamType, word []byte) Token {
	switch t.Kind {
	case BoolKind:
		return Token{Kind: BoolKind, Bool: new(big.Int).SetBytes(word).Sign() != 0}
	case AddressKind:
		return Token{Kind: AddressKind, Address: common.BytesToAddress(word[12:])}
	case FixedBytesKind:
		value := make([]byte, t.Size)
		copy(value, word[:t.Size])
		return Token{Kind: FixedBytesKind, Bytes: value}
	case UintKind:
		return Token{Kind: UintKind, Int: new(big.Int).SetBytes(word[wordSize-t.Size/8:])}
	case IntKind:
		value := new(big.Int).SetBytes(word)
		if word[0]&0x80 != 0 {
			value.Sub(value, twoTo256)
		}
		return Token{Kind: IntKind, Int: value}
	}

	// reference types reaching this point only exist as a 32 byte hash (indexed event topics)
	value := make([]byte, wordSize)
	copy(value, word)
	return Token{Kind: FixedBytesKind, Bytes: value}
}

func readWord(data []byte, pos int) ([]byte, error) {
	if pos < 0 || pos+wordSize > len(data) {
		return nil, decodeError("cannot read word at %d (len=%d)", pos, len(data))
	}
	return data[pos : pos+wordSize], nil
}

// readSize reads an offset, length or element count word. Values larger
// than the buffer can never be valid and are rejected.
func readSize(data []byte, pos int) (int, error) {
	word, err := readWord(data, pos)
	if err != nil {
		return 0, err
	}
	value := new(big.Int).SetBytes(word)
	if !value.IsUint64() || value.Uint64() > uint64(len(data)) {
		return 0, decodeError("size %v at %d exceeds buffer length %d", value, pos, len(data))
	}
	return int(value.Uint64()), nil
}
