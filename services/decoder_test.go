package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/types"
)

func transferInput(to common.Address, amount int64) []byte {
	input := common.FromHex("0xa9059cbb")
	input = append(input, common.LeftPadBytes(to.Bytes(), 32)...)
	input = append(input, common.LeftPadBytes(common.FromHex(fmt.Sprintf("0x%x", amount)), 32)...)
	return input
}

func TestDecodeTransaction(t *testing.T) {
	txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
		testTxHash: {Hash: testTxHash, Input: transferInput(tokenB, 255)},
	}}
	service := NewDecoderService(testConfig(), txSource, newFakeAbiRepository(nil), nil, nullLogger())

	response, err := service.DecodeTransaction(context.Background(), &DecodeRequest{
		TxHash:  testTxHash,
		Abi:     mustParseAbi(t, erc20Abi),
		Network: "eth/mainnet",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Method)
	assert.Equal(t, "transfer", response.Method.Name)
	require.Len(t, response.Method.Inputs, 2)
	assert.Equal(t, "0x000000000000000000000000000000000000000b", response.Method.Inputs[0].Value)
	assert.Equal(t, "255", response.Method.Inputs[1].Value)
}

func TestDecodeTransactionFallback(t *testing.T) {
	txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
		testTxHash: {Hash: testTxHash, Input: []byte{}},
	}}
	service := NewDecoderService(testConfig(), txSource, newFakeAbiRepository(nil), nil, nullLogger())

	response, err := service.DecodeTransaction(context.Background(), &DecodeRequest{
		TxHash:  testTxHash,
		Abi:     mustParseAbi(t, `[{"type":"fallback","stateMutability":"payable"}]`),
		Network: "eth/mainnet",
	})
	require.NoError(t, err)
	assert.Nil(t, response.Method)
}

func TestDecodeTransactionErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		abi      string
		txErr    error
		noAbi    bool
		maxSize  int
		wantErr  error
		isClient bool
	}{
		{name: "short calldata", input: []byte{0x01}, abi: erc20Abi, wantErr: abi.ErrInsufficientCalldata, isClient: true},
		{name: "unknown selector", input: common.FromHex("0xdeadbeef"), abi: erc20Abi, wantErr: abi.ErrSelectorNotFound, isClient: true},
		{name: "truncated arguments", input: common.FromHex("0xa9059cbb0000"), abi: erc20Abi, wantErr: abi.ErrDecode, isClient: true},
		{name: "missing abi", input: []byte{}, noAbi: true, wantErr: ErrInvalidRequest, isClient: true},
		{name: "calldata limit", input: transferInput(tokenA, 1), abi: erc20Abi, maxSize: 16, wantErr: ErrCalldataTooLarge, isClient: true},
		{name: "transaction not found", txErr: fmt.Errorf("%w: %w", ErrTransactionSource, ErrTransactionNotFound), abi: erc20Abi, wantErr: ErrTransactionNotFound, isClient: true},
		{name: "wrong network", txErr: fmt.Errorf("%w: %w", ErrTransactionSource, ErrWrongNetwork), abi: erc20Abi, wantErr: ErrWrongNetwork, isClient: true},
		{name: "transaction source down", txErr: fmt.Errorf("%w: connection refused", ErrTransactionSource), abi: erc20Abi, wantErr: ErrTransactionSource, isClient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			config.Decoder.MaxCalldataSize = tt.maxSize
			txSource := &fakeTxSource{
				txs: map[common.Hash]*types.Transaction{testTxHash: {Hash: testTxHash, Input: tt.input}},
				err: tt.txErr,
			}
			service := NewDecoderService(config, txSource, newFakeAbiRepository(nil), nil, nullLogger())

			req := &DecodeRequest{TxHash: testTxHash, Network: "eth/mainnet"}
			if !tt.noAbi {
				req.Abi = mustParseAbi(t, tt.abi)
			}

			_, err := service.DecodeTransaction(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
			assert.Equal(t, tt.isClient, IsClientError(err))
		})
	}
}

func TestDecodeTransactionSelectorHint(t *testing.T) {
	balanceOf, err := abi.ParseSignature("balanceOf(address)")
	require.NoError(t, err)
	balanceOfSelector := balanceOf.Selector()

	tests := []struct {
		name      string
		input     []byte
		signature string
		hint      string
	}{
		{"matching signature", balanceOfSelector[:], "balanceOf(address owner)", "selector matches balanceOf(address)"},
		{"colliding entry", common.FromHex("0xdeadbeef"), "mint(uint256)", ""},
		{"malformed entry", common.FromHex("0xdeadbeef"), "mint(uint256", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, fmt.Sprintf("0x%x", test.input[:4]), r.URL.Query().Get("hex_signature"))
				_, _ = fmt.Fprintf(w, `{"count":1,"results":[{"id":1,"text_signature":%q}]}`, test.signature)
			}))
			defer server.Close()

			config := testConfig()
			config.TxSignature.DisableLookup = false
			signatures := NewSignatureService(config, nullLogger())
			signatures.lookupUrl = server.URL + "/?hex_signature=0x%x"

			txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
				testTxHash: {Hash: testTxHash, Input: test.input},
			}}
			service := NewDecoderService(config, txSource, newFakeAbiRepository(nil), signatures, nullLogger())

			_, err := service.DecodeTransaction(context.Background(), &DecodeRequest{
				TxHash:  testTxHash,
				Abi:     mustParseAbi(t, erc20Abi),
				Network: "eth/mainnet",
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, abi.ErrSelectorNotFound))

			var hinted *HintedError
			if test.hint == "" {
				assert.False(t, errors.As(err, &hinted))
				return
			}
			require.True(t, errors.As(err, &hinted))
			assert.Equal(t, test.hint, hinted.Hint)
		})
	}
}

func TestDecodeEventsBatch(t *testing.T) {
	contract := mustParseAbi(t, erc20Abi)
	unknown := common.HexToAddress("0x000000000000000000000000000000000000dead")
	txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
		testTxHash: {Hash: testTxHash, Logs: []*abi.TxLog{
			transferLog(tokenA, tokenB, 1, "0"),
			transferLog(unknown, tokenB, 2, "1"),
			transferLog(tokenB, tokenA, 3, "2"),
			transferLog(tokenA, tokenA, 4, "3"),
		}},
	}}
	abiRepo := newFakeAbiRepository(map[common.Address]*abi.Contract{
		tokenA: contract,
		tokenB: contract,
	})
	service := NewDecoderService(testConfig(), txSource, abiRepo, nil, nullLogger())

	response, err := service.DecodeEvents(context.Background(), &EventsRequest{TxHash: testTxHash, Network: "eth/mainnet"})
	require.NoError(t, err)
	require.Len(t, response.Events, 4)

	require.NotNil(t, response.Events[0])
	assert.Equal(t, "0", response.Events[0].Index)
	assert.Equal(t, "1", response.Events[0].Inputs[2].Value)
	assert.Nil(t, response.Events[1])
	require.NotNil(t, response.Events[2])
	assert.Equal(t, "2", response.Events[2].Index)
	assert.Equal(t, "3", response.Events[2].Inputs[2].Value)
	require.NotNil(t, response.Events[3])
	assert.Equal(t, "4", response.Events[3].Inputs[2].Value)

	// one abi fetch per distinct address
	assert.Equal(t, map[common.Address]int{tokenA: 1, tokenB: 1, unknown: 1}, abiRepo.calls)
}

func TestDecodeEventsIsolatesDecodeFailures(t *testing.T) {
	contract := mustParseAbi(t, erc20Abi)
	unmatched := transferLog(tokenA, tokenB, 1, "1")
	unmatched.Topics[0] = &common.Hash{0x01}
	truncated := transferLog(tokenA, tokenB, 1, "2")
	truncated.Topics[2] = nil
	anonymous := abi.NewTxLog(tokenA, nil, nil, "3")

	txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
		testTxHash: {Hash: testTxHash, Logs: []*abi.TxLog{
			transferLog(tokenA, tokenB, 1, "0"),
			unmatched,
			truncated,
			anonymous,
		}},
	}}
	service := NewDecoderService(testConfig(), txSource, newFakeAbiRepository(map[common.Address]*abi.Contract{tokenA: contract}), nil, nullLogger())

	response, err := service.DecodeEvents(context.Background(), &EventsRequest{TxHash: testTxHash, Network: "eth/mainnet"})
	require.NoError(t, err)
	require.Len(t, response.Events, 4)
	assert.NotNil(t, response.Events[0])
	assert.Nil(t, response.Events[1])
	assert.Nil(t, response.Events[2])
	assert.Nil(t, response.Events[3])
}

func TestDecodeEventsWithoutLogs(t *testing.T) {
	txSource := &fakeTxSource{txs: map[common.Hash]*types.Transaction{
		testTxHash: {Hash: testTxHash},
	}}
	service := NewDecoderService(testConfig(), txSource, newFakeAbiRepository(nil), nil, nullLogger())

	response, err := service.DecodeEvents(context.Background(), &EventsRequest{TxHash: testTxHash, Network: "eth/mainnet"})
	require.NoError(t, err)
	assert.NotNil(t, response.Events)
	assert.Empty(t, response.Events)
}

func TestDecodeEventsTransactionError(t *testing.T) {
	txSource := &fakeTxSource{err: fmt.Errorf("%w: %w", ErrTransactionSource, ErrTransactionNotFound)}
	service := NewDecoderService(testConfig(), txSource, newFakeAbiRepository(nil), nil, nullLogger())

	_, err := service.DecodeEvents(context.Background(), &EventsRequest{TxHash: testTxHash, Network: "eth/mainnet"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransactionNotFound))
}
