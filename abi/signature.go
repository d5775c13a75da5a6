package abi

import (
	"fmt"
	"strings"
)

// CanonicalType renders the type as used in signature hashing. Tuples are
// expanded into their parenthesized member list.
func (t ParamType) CanonicalType() string {
	return t.render(true)
}

// String renders the display type name. Tuples show as "tuple".
func (t ParamType) String() string {
	return t.render(false)
}

func (t ParamType) render(canonical bool) string {
	switch t.Kind {
	case BoolKind:
		return "bool"
	case AddressKind:
		return "address"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case FixedBytesKind:
		return fmt.Sprintf("bytes%d", t.Size)
	case IntKind:
		return fmt.Sprintf("int%d", t.Size)
	case UintKind:
		return fmt.Sprintf("uint%d", t.Size)
	case ArrayKind:
		return t.Elem.render(canonical) + "[]"
	case FixedArrayKind:
		return fmt.Sprintf("%s[%d]", t.Elem.render(canonical), t.Size)
	case TupleKind:
		if !canonical {
			return "tuple"
		}
		types := make([]string, len(t.Components))
		for i, c := range t.Components {
			types[i] = c.Type.CanonicalType()
		}
		return "(" + strings.Join(types, ",") + ")"
	}
	return fmt.Sprintf("unknown(%d)", t.Kind)
}

func canonicalSignature(name string, types []ParamType) string {
	var sig strings.Builder
	sig.WriteString(name)
	sig.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sig.WriteByte(',')
		}
		sig.WriteString(t.CanonicalType())
	}
	sig.WriteByte(')')
	return sig.String()
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
// Argument names never take part.
func (f *Function) Signature() string {
	types := make([]ParamType, len(f.Inputs))
	for i, in := range f.Inputs {
		types[i] = in.Type
	}
	return canonicalSignature(f.Name, types)
}

// Signature returns the canonical event signature including indexed inputs.
func (e *Event) Signature() string {
	types := make([]ParamType, len(e.Inputs))
	for i, in := range e.Inputs {
		types[i] = in.Type
	}
	return canonicalSignature(e.Name, types)
}
