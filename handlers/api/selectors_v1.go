package api

import (
	"net/http"

	"github.com/ethpandaops/txdecoder/abi"
)

// APISelectorsResponse lists the hashes of all functions and events of an abi
type APISelectorsResponse struct {
	Status string                `json:"status"`
	Data   []*abi.SelectorEntry `json:"data"`
}

// ApiSelectorsV1 lists function selectors and event topics of the posted abi
// @Summary List abi selectors
// @Description Returns the canonical signature and hash of every function and event in the posted abi json array
// @Tags decoder
// @Accept json
// @Produce json
// @Success 200 {object} APISelectorsResponse
// @Failure 400 {object} ApiErrorResponse "Invalid abi"
// @Router /v1/selectors [post]
// @ID listSelectors
func (h *ApiHandler) ApiSelectorsV1(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	contract := &abi.Contract{}
	if err := decodeJsonBody(r, contract); err != nil {
		sendDecodeErrorResponse(w, r.URL.String(), err, h.logger)
		return
	}

	sendJsonResponse(w, r.URL.String(), &APISelectorsResponse{
		Status: "OK",
		Data:   contract.Selectors(),
	})
}
