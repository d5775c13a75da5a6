package abi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureAndSelector(t *testing.T) {
	order := TupleType(Param{Name: "amount", Type: UintType(256)}, Param{Name: "label", Type: StringType()})

	tests := []struct {
		name      string
		function  *Function
		signature string
		selector  string
	}{
		{
			name: "erc20 transfer",
			function: &Function{Name: "transfer", Inputs: []Param{
				{Name: "to", Type: AddressType()},
				{Name: "value", Type: UintType(256)},
			}},
			signature: "transfer(address,uint256)",
			selector:  "0xa9059cbb",
		},
		{
			name:      "no inputs",
			function:  &Function{Name: "totalSupply"},
			signature: "totalSupply()",
			selector:  "0x18160ddd",
		},
		{
			name: "argument names are ignored",
			function: &Function{Name: "balanceOf", Inputs: []Param{
				{Name: "whoever", Type: AddressType()},
			}},
			signature: "balanceOf(address)",
			selector:  "0x70a08231",
		},
		{
			name: "tuple array expands to member list",
			function: &Function{Name: "submit", Inputs: []Param{
				{Name: "orders", Type: ArrayType(order)},
				{Name: "salt", Type: FixedBytesType(32)},
			}},
			signature: "submit((uint256,string)[],bytes32)",
			selector:  "0x691556f4",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.signature, test.function.Signature())
			selector := test.function.Selector()
			assert.Equal(t, test.selector, fmt.Sprintf("0x%x", selector[:]))
		})
	}
}

func TestEventTopic(t *testing.T) {
	contract := mustParseJSON(t, erc20Abi)

	transfer := contract.Events["Transfer"][0]
	assert.Equal(t, "Transfer(address,address,uint256)", transfer.Signature())
	assert.Equal(t, transferTopic, transfer.Topic())

	approval := contract.Events["Approval"][0]
	assert.Equal(t, "0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925", approval.Topic().Hex())
	assert.Same(t, approval, contract.EventByTopic(approval.Topic()))
}

func TestDisplayTypeNames(t *testing.T) {
	tuple := TupleType(Param{Type: UintType(256)}, Param{Type: AddressType()})

	tests := []struct {
		typ       ParamType
		display   string
		canonical string
	}{
		{UintType(256), "uint256", "uint256"},
		{IntType(8), "int8", "int8"},
		{FixedBytesType(32), "bytes32", "bytes32"},
		{ArrayType(FixedArrayType(UintType(256), 2)), "uint256[2][]", "uint256[2][]"},
		{tuple, "tuple", "(uint256,address)"},
		{ArrayType(tuple), "tuple[]", "(uint256,address)[]"},
		{FixedArrayType(tuple, 3), "tuple[3]", "(uint256,address)[3]"},
	}

	for _, test := range tests {
		t.Run(test.display, func(t *testing.T) {
			assert.Equal(t, test.display, test.typ.String())
			assert.Equal(t, test.canonical, test.typ.CanonicalType())
		})
	}
}

func TestSelectorCollisionFirstDeclarationWins(t *testing.T) {
	// burn(uint256) and collate_propagate_storage(bytes16) share 0x42966c68
	burn := &Function{Name: "burn", Inputs: []Param{{Name: "amount", Type: UintType(256)}}}
	collate := &Function{Name: "collate_propagate_storage", Inputs: []Param{{Name: "data", Type: FixedBytesType(16)}}}
	require.Equal(t, burn.Selector(), collate.Selector())

	first := NewContract([]*Function{burn, collate}, nil, false)
	assert.Same(t, burn, first.FunctionBySelector(burn.Selector()))

	reversed := NewContract([]*Function{collate, burn}, nil, false)
	assert.Same(t, collate, reversed.FunctionBySelector(burn.Selector()))

	// both stay reachable by name
	assert.Len(t, first.Functions, 2)
}

func TestOverloadsAreIndexedSeparately(t *testing.T) {
	contract := mustParseJSON(t, `[
		{"type":"function","name":"safeTransferFrom","inputs":[
			{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"}
		]},
		{"type":"function","name":"safeTransferFrom","inputs":[
			{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"data","type":"bytes"}
		]}
	]`)

	overloads := contract.Functions["safeTransferFrom"]
	require.Len(t, overloads, 2)
	assert.NotEqual(t, overloads[0].Selector(), overloads[1].Selector())
	assert.Same(t, overloads[0], contract.FunctionBySelector(overloads[0].Selector()))
	assert.Same(t, overloads[1], contract.FunctionBySelector(overloads[1].Selector()))
}

func TestAnonymousEventsAreNotTopicIndexed(t *testing.T) {
	anon := &Event{Name: "Transfer", Anonymous: true, Inputs: []EventParam{
		{Param: Param{Name: "from", Type: AddressType()}, Indexed: true},
		{Param: Param{Name: "to", Type: AddressType()}, Indexed: true},
		{Param: Param{Name: "value", Type: UintType(256)}},
	}}

	contract := NewContract(nil, []*Event{anon}, false)
	assert.Nil(t, contract.EventByTopic(anon.Topic()))
	assert.Len(t, contract.Events["Transfer"], 1)
}

func TestSelectorsListing(t *testing.T) {
	contract := mustParseJSON(t, erc20Abi)

	entries := contract.Selectors()
	require.Len(t, entries, 5)

	assert.Equal(t, &SelectorEntry{
		Type:      "function",
		Name:      "transfer",
		Signature: "transfer(address,uint256)",
		Hash:      "0xa9059cbb",
	}, entries[2])
	assert.Equal(t, &SelectorEntry{
		Type:      "event",
		Name:      "Transfer",
		Signature: "Transfer(address,address,uint256)",
		Hash:      transferTopic.Hex(),
	}, entries[3])
}
