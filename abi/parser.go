package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseType parses a solidity type string. components describe the members
// when the base type is "tuple".
func ParseType(typ string, components []Param) (ParamType, error) {
	typ = strings.TrimSpace(typ)

	// array suffix, outermost dimension is the last one
	if strings.HasSuffix(typ, "]") {
		open := strings.LastIndex(typ, "[")
		if open < 0 {
			return ParamType{}, fmt.Errorf("%w: unbalanced array type %q", ErrInvalidAbi, typ)
		}
		elem, err := ParseType(typ[:open], components)
		if err != nil {
			return ParamType{}, err
		}
		dim := typ[open+1 : len(typ)-1]
		if dim == "" {
			return ArrayType(elem), nil
		}
		size, err := strconv.Atoi(dim)
		if err != nil || size <= 0 {
			return ParamType{}, fmt.Errorf("%w: invalid array size in %q", ErrInvalidAbi, typ)
		}
		array := FixedArrayType(elem, size)
		if !array.IsDynamic() && array.headSize() >= MaxStaticSize {
			return ParamType{}, fmt.Errorf("%w: array type %q is too wide", ErrInvalidAbi, typ)
		}
		return array, nil
	}

	// inline tuple as found in canonical signatures
	if strings.HasPrefix(typ, "(") {
		if !strings.HasSuffix(typ, ")") {
			return ParamType{}, fmt.Errorf("%w: unbalanced tuple type %q", ErrInvalidAbi, typ)
		}
		members, err := parseTypeList(typ[1 : len(typ)-1])
		if err != nil {
			return ParamType{}, err
		}
		return TupleType(members...), nil
	}

	switch typ {
	case "bool":
		return BoolType(), nil
	case "address":
		return AddressType(), nil
	case "string":
		return StringType(), nil
	case "bytes":
		return BytesType(), nil
	case "function":
		return FixedBytesType(24), nil
	case "uint":
		return UintType(256), nil
	case "int":
		return IntType(256), nil
	case "tuple":
		return TupleType(components...), nil
	}

	switch {
	case strings.HasPrefix(typ, "uint"):
		bits, err := parseIntWidth(typ, typ[4:])
		if err != nil {
			return ParamType{}, err
		}
		return UintType(bits), nil
	case strings.HasPrefix(typ, "int"):
		bits, err := parseIntWidth(typ, typ[3:])
		if err != nil {
			return ParamType{}, err
		}
		return IntType(bits), nil
	case strings.HasPrefix(typ, "bytes"):
		size, err := strconv.Atoi(typ[5:])
		if err != nil || size < 1 || size > 32 {
			return ParamType{}, fmt.Errorf("%w: invalid fixed bytes type %q", ErrInvalidAbi, typ)
		}
		return FixedBytesType(size), nil
	}

	return ParamType{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidAbi, typ)
}

func parseIntWidth(typ, width string) (int, error) {
	bits, err := strconv.Atoi(width)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, fmt.Errorf("%w: invalid integer type %q", ErrInvalidAbi, typ)
	}
	return bits, nil
}

// parseTypeList parses a comma separated list of unnamed types.
func parseTypeList(list string) ([]Param, error) {
	if strings.TrimSpace(list) == "" {
		return []Param{}, nil
	}
	parts, err := splitTopLevel(list, ',')
	if err != nil {
		return nil, err
	}
	params := make([]Param, len(parts))
	for i, part := range parts {
		typ, name := splitTypeAndName(part)
		if typ == "" {
			return nil, fmt.Errorf("%w: empty type in %q", ErrInvalidAbi, list)
		}
		t, err := ParseType(typ, nil)
		if err != nil {
			return nil, err
		}
		params[i] = Param{Name: name, Type: t}
	}
	return params, nil
}

// splitTypeAndName separates "uint256[] memory values" into type and name.
// Data location and indexed keywords are dropped.
func splitTypeAndName(part string) (string, string) {
	part = strings.TrimSpace(part)
	typeEnd := len(part)
	closing := strings.LastIndexAny(part, ")]")
	if space := strings.IndexByte(part[closing+1:], ' '); space >= 0 {
		typeEnd = closing + 1 + space
	}

	name := ""
	for _, field := range strings.Fields(part[typeEnd:]) {
		switch field {
		case "memory", "calldata", "storage", "indexed":
		default:
			name = field
		}
	}
	return part[:typeEnd], name
}

// splitTopLevel splits s at sep, ignoring separators nested in parentheses.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var result []string
	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses in %q", ErrInvalidAbi, s)
			}
		case sep:
			if depth == 0 {
				result = append(result, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced parentheses in %q", ErrInvalidAbi, s)
	}

	return append(result, s[start:]), nil
}

// ParseSignature parses a human readable function signature such as
// "transfer(address,uint256)" or "transfer(address to, uint256 value)".
func ParseSignature(signature string) (*Function, error) {
	signature = strings.TrimSpace(signature)
	signature = strings.TrimPrefix(signature, "function ")
	parenIdx := strings.Index(signature, "(")
	if parenIdx <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, fmt.Errorf("%w: invalid signature format %q", ErrInvalidAbi, signature)
	}

	inputs, err := parseTypeList(signature[parenIdx+1 : len(signature)-1])
	if err != nil {
		return nil, err
	}

	return &Function{
		Name:   strings.TrimSpace(signature[:parenIdx]),
		Inputs: inputs,
	}, nil
}
