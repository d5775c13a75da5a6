package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		dynamic  bool
	}{
		{"uint256", "uint256", false},
		{"uint", "uint256", false},
		{"int", "int256", false},
		{"uint8", "uint8", false},
		{"int128", "int128", false},
		{"bool", "bool", false},
		{"address", "address", false},
		{"bytes1", "bytes1", false},
		{"bytes32", "bytes32", false},
		{"function", "bytes24", false},
		{"bytes", "bytes", true},
		{"string", "string", true},
		{"uint256[]", "uint256[]", true},
		{"uint256[3]", "uint256[3]", false},
		{"string[3]", "string[3]", true},
		{"address[2][]", "address[2][]", true},
		{"bytes32[][4]", "bytes32[][4]", true},
		{"(uint256,string)", "tuple", true},
		{"(uint256,(address,bool))[2]", "tuple[2]", false},
		{" uint64 ", "uint64", false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			typ, err := ParseType(test.input, nil)
			require.NoError(t, err)
			assert.Equal(t, test.expected, typ.String())
			assert.Equal(t, test.dynamic, typ.IsDynamic())
		})
	}
}

func TestParseTypeInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"uint7",
		"uint264",
		"int0",
		"bytes0",
		"bytes33",
		"uint256[0]",
		"uint256[x]",
		"uint256[10000000000000]",
		"uint256[4294967296][4294967296]",
		"(uint256,bool)[40000000]",
		"uint256]",
		"(uint256",
		"(uint256,)",
		"fixed128x18",
		"mapping",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseType(input, nil)
			assert.ErrorIs(t, err, ErrInvalidAbi)
		})
	}
}

func TestParseTypeTupleComponents(t *testing.T) {
	components := []Param{
		{Name: "to", Type: AddressType()},
		{Name: "amounts", Type: ArrayType(UintType(256))},
	}

	typ, err := ParseType("tuple[]", components)
	require.NoError(t, err)
	assert.Equal(t, ArrayKind, typ.Kind)
	assert.Equal(t, TupleKind, typ.Elem.Kind)
	assert.Equal(t, "(address,uint256[])[]", typ.CanonicalType())
	assert.Equal(t, "amounts", typ.Elem.Components[1].Name)
}

func TestParseSignature(t *testing.T) {
	tests := []struct {
		input     string
		name      string
		signature string
		argNames  []string
	}{
		{"transfer(address,uint256)", "transfer", "transfer(address,uint256)", []string{"", ""}},
		{"transfer(address to, uint256 value)", "transfer", "transfer(address,uint256)", []string{"to", "value"}},
		{"function approve(address spender, uint256 amount)", "approve", "approve(address,uint256)", []string{"spender", "amount"}},
		{"setData(bytes memory data, string[] calldata names)", "setData", "setData(bytes,string[])", []string{"data", "names"}},
		{"fill((address,uint256) order, bytes sig)", "fill", "fill((address,uint256),bytes)", []string{"order", "sig"}},
		{"totalSupply()", "totalSupply", "totalSupply()", []string{}},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			fn, err := ParseSignature(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.name, fn.Name)
			assert.Equal(t, test.signature, fn.Signature())

			names := make([]string, len(fn.Inputs))
			for i, input := range fn.Inputs {
				names[i] = input.Name
			}
			assert.Equal(t, test.argNames, names)
		})
	}
}

func TestParseSignatureInvalid(t *testing.T) {
	for _, input := range []string{"", "transfer", "(address)", "transfer(address", "transfer(uint7)"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSignature(input)
			assert.ErrorIs(t, err, ErrInvalidAbi)
		})
	}
}

func TestParseJSON(t *testing.T) {
	contract, err := ParseJSON([]byte(`[
		{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}]},
		{"name":"legacyView","constant":true,"inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"deposit","payable":true,"inputs":[]},
		{"type":"function","name":"pure","stateMutability":"pure","inputs":[]},
		{"type":"error","name":"Unauthorized","inputs":[{"name":"caller","type":"address"}]},
		{"type":"event","name":"Logged","anonymous":true,"inputs":[{"name":"who","type":"address","indexed":true}]}
	]`))
	require.NoError(t, err)

	functions := contract.FunctionList()
	require.Len(t, functions, 3)
	assert.Equal(t, "legacyView", functions[0].Name)
	assert.Equal(t, View, functions[0].StateMutability)
	assert.Len(t, functions[0].Outputs, 1)
	assert.Equal(t, Payable, functions[1].StateMutability)
	assert.Equal(t, Pure, functions[2].StateMutability)

	events := contract.EventList()
	require.Len(t, events, 1)
	assert.True(t, events[0].Anonymous)
	assert.True(t, events[0].Inputs[0].Indexed)

	assert.False(t, contract.HasFallback)
}

func TestParseJSONNestedComponents(t *testing.T) {
	contract, err := ParseJSON([]byte(`[
		{"type":"function","name":"execute","inputs":[
			{"name":"calls","type":"tuple[]","internalType":"struct Call[]","components":[
				{"name":"target","type":"address","internalType":"address"},
				{"name":"inner","type":"tuple","internalType":"struct Inner","components":[
					{"name":"value","type":"uint96"},
					{"name":"data","type":"bytes"}
				]}
			]}
		]}
	]`))
	require.NoError(t, err)

	fn := contract.Functions["execute"][0]
	assert.Equal(t, "execute((address,(uint96,bytes))[])", fn.Signature())
	assert.Equal(t, "struct Call[]", fn.Inputs[0].InternalType)
	assert.Equal(t, "tuple[]", fn.Inputs[0].Type.String())
	assert.Equal(t, "address", fn.Inputs[0].Type.Elem.Components[0].InternalType)
}

func TestParseJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"not an array", `{"type":"function"}`},
		{"unknown entry type", `[{"type":"modifier","name":"onlyOwner"}]`},
		{"bad argument type", `[{"type":"function","name":"f","inputs":[{"name":"x","type":"uint3"}]}]`},
		{"bad event argument", `[{"type":"event","name":"E","inputs":[{"name":"x","type":"bytes40"}]}]`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(test.input))
			assert.ErrorIs(t, err, ErrInvalidAbi)
			assert.True(t, IsClientError(err))
		})
	}
}
