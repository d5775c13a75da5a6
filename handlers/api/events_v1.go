package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ethpandaops/txdecoder/services"
)

// ApiEventsV1 decodes all logs of a transaction
// @Summary Decode transaction event logs
// @Description Fetches the transaction from the given network and decodes every log with the abi of its emitting contract. The result holds one entry per log in log order, null for logs that could not be decoded. Anonymous events carry no signature topic and cannot be matched, so their logs are always null.
// @Tags decoder
// @Accept json
// @Produce json
// @Param request body services.EventsRequest true "transaction hash and network"
// @Success 200 {object} services.EventsResponse
// @Failure 400 {object} ApiErrorResponse "Invalid input, missing transaction or unknown network"
// @Failure 500 {object} ApiErrorResponse "Collaborator or internal failure"
// @Router /v1/events [post]
// @ID decodeEvents
func (h *ApiHandler) ApiEventsV1(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	req := &services.EventsRequest{}
	if err := decodeJsonBody(r, req); err != nil {
		sendDecodeErrorResponse(w, r.URL.String(), err, h.logger)
		return
	}
	if strings.Trim(req.Network, "/ ") == "" {
		sendBadRequestResponse(w, r.URL.String(), "missing network")
		return
	}

	response, err := h.decoder.DecodeEvents(r.Context(), req)
	if err != nil {
		sendDecodeErrorResponse(w, r.URL.String(), fmt.Errorf("tx %v: %w", req.TxHash.Hex(), err), h.logger)
		return
	}

	sendJsonResponse(w, r.URL.String(), response)
}
