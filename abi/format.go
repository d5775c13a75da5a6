package abi

import (
	"encoding/hex"
	"strings"
)

// FormatToken renders a decoded value for display.
func FormatToken(token Token) string {
	switch token.Kind {
	case BoolKind:
		if token.Bool {
			return "true"
		}
		return "false"
	case AddressKind:
		return "0x" + hex.EncodeToString(token.Address[:])
	case StringKind:
		return token.Str
	case BytesKind, FixedBytesKind:
		return "0x" + hex.EncodeToString(token.Bytes)
	case IntKind, UintKind:
		if token.Int == nil {
			return "0"
		}
		return token.Int.String()
	case ArrayKind, FixedArrayKind:
		return "[" + formatItems(token.Items) + "]"
	case TupleKind:
		return "(" + formatItems(token.Items) + ")"
	}
	return ""
}

func formatItems(items []Token) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = FormatToken(item)
	}
	return strings.Join(parts, ",")
}

// FormatParamType renders the declared type name of a parameter.
func FormatParamType(param Param) string {
	return param.Type.String()
}
