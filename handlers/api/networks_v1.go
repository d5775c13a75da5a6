package api

import (
	"net/http"
)

// APINetworkInfo describes a network that can be used in decode requests
type APINetworkInfo struct {
	Name    string `json:"name"`
	ChainId uint64 `json:"chain_id,omitempty"`
	Source  string `json:"source"` // "rpc" or "blockscout"
}

// ApiNetworksV1 lists the configured networks
// @Summary List networks
// @Description Returns the networks accepted in the `network` field of decode requests
// @Tags network
// @Produce json
// @Success 200 {object} ApiResponse{data=[]APINetworkInfo}
// @Router /v1/networks [get]
// @ID getNetworks
func (h *ApiHandler) ApiNetworksV1(w http.ResponseWriter, r *http.Request) {
	networks := make([]*APINetworkInfo, 0, len(h.config.Networks))
	for _, network := range h.config.Networks {
		info := &APINetworkInfo{
			Name:    network.Name,
			ChainId: network.ChainId,
			Source:  "blockscout",
		}
		if network.RpcUrl != "" {
			info.Source = "rpc"
		}
		networks = append(networks, info)
	}

	SendOKResponse(w, r.URL.String(), networks)
}
