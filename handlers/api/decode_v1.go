package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ethpandaops/txdecoder/services"
)

// ApiDecodeV1 decodes the calldata of a transaction against the posted abi
// @Summary Decode transaction calldata
// @Description Fetches the transaction from the given network and decodes its input with the supplied abi. `method` is null when the call went to the fallback function.
// @Tags decoder
// @Accept json
// @Produce json
// @Param request body services.DecodeRequest true "transaction hash, abi and network"
// @Success 200 {object} services.DecodeResponse
// @Failure 400 {object} ApiErrorResponse "Invalid input, unknown selector, missing transaction or unknown network"
// @Failure 500 {object} ApiErrorResponse "Collaborator or internal failure"
// @Router /v1/decode [post]
// @ID decodeTransaction
func (h *ApiHandler) ApiDecodeV1(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	req := &services.DecodeRequest{}
	if err := decodeJsonBody(r, req); err != nil {
		sendDecodeErrorResponse(w, r.URL.String(), err, h.logger)
		return
	}
	if req.Abi == nil {
		sendBadRequestResponse(w, r.URL.String(), "missing abi")
		return
	}
	if strings.Trim(req.Network, "/ ") == "" {
		sendBadRequestResponse(w, r.URL.String(), "missing network")
		return
	}

	response, err := h.decoder.DecodeTransaction(r.Context(), req)
	if err != nil {
		sendDecodeErrorResponse(w, r.URL.String(), fmt.Errorf("tx %v: %w", req.TxHash.Hex(), err), h.logger)
		return
	}

	sendJsonResponse(w, r.URL.String(), response)
}
