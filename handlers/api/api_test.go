package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/services"
	"github.com/ethpandaops/txdecoder/types"
)

const testAbi = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}]},{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256"}]}]`

const testTxHash = "0x6b6a8f5cb7ef3e3a3c0a0c7f8c3e1c2b2f9c0e4e1a3d6b5c7f8e9d0a1b2c3d4e"

type fakeDecoder struct {
	decodeRequest *services.DecodeRequest
	eventsRequest *services.EventsRequest
	decodeResult  *services.DecodeResponse
	eventsResult  *services.EventsResponse
	err           error
}

func (d *fakeDecoder) DecodeTransaction(ctx context.Context, req *services.DecodeRequest) (*services.DecodeResponse, error) {
	d.decodeRequest = req
	return d.decodeResult, d.err
}

func (d *fakeDecoder) DecodeEvents(ctx context.Context, req *services.EventsRequest) (*services.EventsResponse, error) {
	d.eventsRequest = req
	return d.eventsResult, d.err
}

func newTestRouter(decoder Decoder) *mux.Router {
	config := &types.Config{}
	config.Server.MaxBodySize = 64 * 1024
	config.Networks = []types.NetworkConfig{
		{Name: "eth/mainnet", Path: "eth/mainnet"},
		{Name: "sepolia", Path: "eth/sepolia", RpcUrl: "http://127.0.0.1:8545", ChainId: 11155111},
	}
	logger, _ := test.NewNullLogger()

	router := mux.NewRouter()
	NewApiHandler(config, decoder, logger).RegisterRoutes(router)
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestApiDecode(t *testing.T) {
	decoder := &fakeDecoder{decodeResult: &services.DecodeResponse{Method: &abi.DecodedCall{
		Name:   "transfer",
		Inputs: []*abi.DecodedInput{{Name: "to", Type: "address", Value: "0x000000000000000000000000000000000000000b"}},
	}}}
	router := newTestRouter(decoder)
	body := fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet","abi":%s}`, testTxHash, testAbi)

	for _, path := range []string{"/", "/api/v1/decode"} {
		rec := doRequest(router, http.MethodPost, path, body)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"method":{"name":"transfer","inputs":[{"name":"to","type":"address","value":"0x000000000000000000000000000000000000000b"}]}}`, rec.Body.String())
	}

	require.NotNil(t, decoder.decodeRequest)
	assert.Equal(t, common.HexToHash(testTxHash), decoder.decodeRequest.TxHash)
	assert.Equal(t, "eth/mainnet", decoder.decodeRequest.Network)
	assert.Len(t, decoder.decodeRequest.Abi.Functions["transfer"], 1)
}

func TestApiDecodeFallback(t *testing.T) {
	router := newTestRouter(&fakeDecoder{decodeResult: &services.DecodeResponse{}})
	rec := doRequest(router, http.MethodPost, "/api/v1/decode", fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet","abi":[{"type":"fallback"}]}`, testTxHash))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"method":null}`, rec.Body.String())
}

func TestApiDecodeErrors(t *testing.T) {
	validBody := fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet","abi":%s}`, testTxHash, testAbi)

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantKind   string
		wantHint   string
	}{
		{name: "invalid json", body: `{"tx_hash":`, wantStatus: http.StatusBadRequest, wantKind: "InvalidRequest"},
		{name: "invalid tx hash", body: `{"tx_hash":"0x1234","network":"eth/mainnet","abi":[]}`, wantStatus: http.StatusBadRequest, wantKind: "InvalidRequest"},
		{name: "invalid abi", body: fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet","abi":[{"type":"function","name":"f","inputs":[{"name":"a","type":"uint7"}]}]}`, testTxHash), wantStatus: http.StatusBadRequest, wantKind: "InvalidAbi"},
		{name: "missing abi", body: fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet"}`, testTxHash), wantStatus: http.StatusBadRequest},
		{name: "missing network", body: fmt.Sprintf(`{"tx_hash":%q,"abi":[]}`, testTxHash), wantStatus: http.StatusBadRequest},
		{name: "selector not found", body: validBody, err: fmt.Errorf("%w: 0xdeadbeef", abi.ErrSelectorNotFound), wantStatus: http.StatusBadRequest, wantKind: "SelectorNotFound"},
		{name: "selector hint", body: validBody, err: &services.HintedError{Err: fmt.Errorf("%w: 0xdeadbeef", abi.ErrSelectorNotFound), Hint: "selector matches mint(uint256)"}, wantStatus: http.StatusBadRequest, wantKind: "SelectorNotFound", wantHint: "selector matches mint(uint256)"},
		{name: "short calldata", body: validBody, err: abi.ErrInsufficientCalldata, wantStatus: http.StatusBadRequest, wantKind: "InsufficientCalldata"},
		{name: "decode error", body: validBody, err: abi.ErrDecode, wantStatus: http.StatusBadRequest, wantKind: "DecodeError"},
		{name: "transaction not found", body: validBody, err: fmt.Errorf("%w: %w", services.ErrTransactionSource, services.ErrTransactionNotFound), wantStatus: http.StatusBadRequest, wantKind: "TransactionSourceError"},
		{name: "wrong network", body: validBody, err: fmt.Errorf("%w: %w", services.ErrTransactionSource, services.ErrWrongNetwork), wantStatus: http.StatusBadRequest, wantKind: "TransactionSourceError"},
		{name: "transaction source down", body: validBody, err: fmt.Errorf("%w: timeout", services.ErrTransactionSource), wantStatus: http.StatusInternalServerError, wantKind: "TransactionSourceError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeDecoder{err: tt.err})
			rec := doRequest(router, http.MethodPost, "/api/v1/decode", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.True(t, strings.HasPrefix(body["status"].(string), "ERROR: "))
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body["kind"])
			}
			if tt.wantHint != "" {
				assert.Equal(t, tt.wantHint, body["hint"])
			}
		})
	}
}

func TestApiEvents(t *testing.T) {
	decoder := &fakeDecoder{eventsResult: &services.EventsResponse{Events: []*abi.DecodedEvent{
		{Name: "Transfer", Index: "0", Inputs: []*abi.DecodedEventInput{{Name: "value", Type: "uint256", Value: "1"}}},
		nil,
		{Name: "Transfer", Index: "2", Inputs: []*abi.DecodedEventInput{}},
	}}}
	router := newTestRouter(decoder)

	rec := doRequest(router, http.MethodPost, "/api/v1/events", fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet"}`, testTxHash))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[
		{"name":"Transfer","anonymous":false,"index":"0","inputs":[{"name":"value","type":"uint256","indexed":false,"value":"1"}]},
		null,
		{"name":"Transfer","anonymous":false,"index":"2","inputs":[]}
	]}`, rec.Body.String())
	assert.Equal(t, "eth/mainnet", decoder.eventsRequest.Network)
}

func TestApiEventsErrors(t *testing.T) {
	router := newTestRouter(&fakeDecoder{err: fmt.Errorf("%w: %w", services.ErrTransactionSource, services.ErrTransactionNotFound)})
	rec := doRequest(router, http.MethodPost, "/api/v1/events", fmt.Sprintf(`{"tx_hash":%q,"network":"eth/mainnet"}`, testTxHash))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/events", fmt.Sprintf(`{"tx_hash":%q}`, testTxHash))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApiSelectors(t *testing.T) {
	router := newTestRouter(&fakeDecoder{})

	rec := doRequest(router, http.MethodPost, "/api/v1/selectors", testAbi)
	require.Equal(t, http.StatusOK, rec.Code)

	response := &APISelectorsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), response))
	assert.Equal(t, "OK", response.Status)
	require.Len(t, response.Data, 2)
	assert.Equal(t, "transfer(address,uint256)", response.Data[0].Signature)
	assert.Equal(t, "0xa9059cbb", response.Data[0].Hash)
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", response.Data[1].Hash)

	rec = doRequest(router, http.MethodPost, "/api/v1/selectors", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApiNetworks(t *testing.T) {
	router := newTestRouter(&fakeDecoder{})

	rec := doRequest(router, http.MethodGet, "/api/v1/networks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","data":[
		{"name":"eth/mainnet","source":"blockscout"},
		{"name":"sepolia","chain_id":11155111,"source":"rpc"}
	]}`, rec.Body.String())
}

func TestApiMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeDecoder{})
	rec := doRequest(router, http.MethodGet, "/api/v1/decode", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
