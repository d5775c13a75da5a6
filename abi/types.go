package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies the shape of a ParamType or Token.
type Kind uint8

const (
	BoolKind Kind = iota
	AddressKind
	StringKind
	BytesKind
	FixedBytesKind
	IntKind
	UintKind
	ArrayKind
	FixedArrayKind
	TupleKind
)

// ParamType is the declared type of an abi parameter.
//
// Size holds the bit width for Int/Uint, the byte length for FixedBytes and
// the element count for FixedArray. Elem is set for Array and FixedArray,
// Components for Tuple.
type ParamType struct {
	Kind       Kind
	Size       int
	Elem       *ParamType
	Components []Param
}

func BoolType() ParamType    { return ParamType{Kind: BoolKind} }
func AddressType() ParamType { return ParamType{Kind: AddressKind} }
func StringType() ParamType  { return ParamType{Kind: StringKind} }
func BytesType() ParamType   { return ParamType{Kind: BytesKind} }

func FixedBytesType(size int) ParamType { return ParamType{Kind: FixedBytesKind, Size: size} }
func IntType(bits int) ParamType        { return ParamType{Kind: IntKind, Size: bits} }
func UintType(bits int) ParamType       { return ParamType{Kind: UintKind, Size: bits} }

func ArrayType(elem ParamType) ParamType {
	return ParamType{Kind: ArrayKind, Elem: &elem}
}

func FixedArrayType(elem ParamType, size int) ParamType {
	return ParamType{Kind: FixedArrayKind, Elem: &elem, Size: size}
}

func TupleType(components ...Param) ParamType {
	return ParamType{Kind: TupleKind, Components: components}
}

// IsDynamic reports whether values of this type are encoded through an offset.
func (t ParamType) IsDynamic() bool {
	switch t.Kind {
	case StringKind, BytesKind, ArrayKind:
		return true
	case FixedArrayKind:
		return t.Size > 0 && t.Elem.IsDynamic()
	case TupleKind:
		for _, c := range t.Components {
			if c.Type.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// MaxStaticSize bounds the encoded width of a static type. Wider types
// saturate at this value, which no payload can satisfy.
const MaxStaticSize = 1 << 30

// headSize returns the number of bytes the type occupies in a head sequence,
// saturated at MaxStaticSize.
func (t ParamType) headSize() int {
	if t.IsDynamic() {
		return 32
	}
	switch t.Kind {
	case FixedArrayKind:
		elemSize := t.Elem.headSize()
		if elemSize > 0 && t.Size > MaxStaticSize/elemSize {
			return MaxStaticSize
		}
		return t.Size * elemSize
	case TupleKind:
		size := 0
		for _, c := range t.Components {
			size += c.Type.headSize()
			if size >= MaxStaticSize {
				return MaxStaticSize
			}
		}
		return size
	}
	return 32
}

// isElementary reports whether a value of the type fits in a single word.
func (t ParamType) isElementary() bool {
	switch t.Kind {
	case BoolKind, AddressKind, FixedBytesKind, IntKind, UintKind:
		return true
	}
	return false
}

// Param is a named argument declaration.
type Param struct {
	Name         string
	Type         ParamType
	InternalType string
}

// StateMutability of a function.
type StateMutability uint8

const (
	NonPayable StateMutability = iota
	Payable
	View
	Pure
)

func (s StateMutability) String() string {
	switch s {
	case Payable:
		return "payable"
	case View:
		return "view"
	case Pure:
		return "pure"
	}
	return "nonpayable"
}

// Function is a callable contract entry point.
type Function struct {
	Name            string
	Inputs          []Param
	Outputs         []Param
	StateMutability StateMutability
}

// EventParam is an event input with its indexed flag.
type EventParam struct {
	Param
	Indexed bool
}

// Event is an event declaration.
type Event struct {
	Name      string
	Inputs    []EventParam
	Anonymous bool
}

// Token is a decoded value. Kind selects which of the value fields is set:
// Bool, Address, Str (String), Bytes (Bytes and FixedBytes), Int (Int and
// Uint) or Items (Array, FixedArray and Tuple).
type Token struct {
	Kind    Kind
	Bool    bool
	Address common.Address
	Str     string
	Bytes   []byte
	Int     *big.Int
	Items   []Token
}

// TxLog is a single emitted log entry.
//
// Topics[0] is nil for logs without topics, which happens for anonymous
// events without indexed inputs.
type TxLog struct {
	Address common.Address
	Data    []byte
	Topics  [4]*common.Hash
	Index   string
}

// NewTxLog builds a TxLog from the topic list as returned by a node.
func NewTxLog(address common.Address, data []byte, topics []common.Hash, index string) *TxLog {
	log := &TxLog{
		Address: address,
		Data:    data,
		Index:   index,
	}
	for i := 0; i < len(topics) && i < len(log.Topics); i++ {
		topic := topics[i]
		log.Topics[i] = &topic
	}
	return log
}

// TopicCount returns the number of leading non-nil topics.
func (l *TxLog) TopicCount() int {
	count := 0
	for _, topic := range l.Topics {
		if topic == nil {
			break
		}
		count++
	}
	return count
}

// DecodedInput is a single formatted function argument.
type DecodedInput struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType *string `json:"internal_type,omitempty"`
	Value        string  `json:"value"`
}

// DecodedCall is the formatted result of a function call decode.
type DecodedCall struct {
	Name   string          `json:"name"`
	Inputs []*DecodedInput `json:"inputs"`
}

// DecodedEventInput is a single formatted event argument.
type DecodedEventInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
	Value   string `json:"value"`
}

// DecodedEvent is the formatted result of an event log decode.
type DecodedEvent struct {
	Name      string               `json:"name"`
	Anonymous bool                 `json:"anonymous"`
	Index     string               `json:"index"`
	Inputs    []*DecodedEventInput `json:"inputs"`
}
