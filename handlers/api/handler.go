package api

// @title Transaction Decoder API
// @version 1.0
// @description Decodes transaction calldata and event logs against contract abis.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name decoder
// @tag.description Calldata and event decoding endpoints

// @tag.name network
// @tag.description Network information endpoints

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/services"
	"github.com/ethpandaops/txdecoder/types"
)

// Decoder is the part of the decoder service used by the api.
type Decoder interface {
	DecodeTransaction(ctx context.Context, req *services.DecodeRequest) (*services.DecodeResponse, error)
	DecodeEvents(ctx context.Context, req *services.EventsRequest) (*services.EventsResponse, error)
}

type ApiHandler struct {
	config  *types.Config
	decoder Decoder
	logger  logrus.FieldLogger
}

func NewApiHandler(config *types.Config, decoder Decoder, logger logrus.FieldLogger) *ApiHandler {
	return &ApiHandler{
		config:  config,
		decoder: decoder,
		logger:  logger,
	}
}

// RegisterRoutes adds the api endpoints to the router.
func (h *ApiHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.ApiDecodeV1).Methods("POST", "OPTIONS")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/decode", h.ApiDecodeV1).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/events", h.ApiEventsV1).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/selectors", h.ApiSelectorsV1).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/networks", h.ApiNetworksV1).Methods("GET", "OPTIONS")
}

func (h *ApiHandler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.config.Server.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxBodySize)
	}
}
