package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/services"
)

type ApiResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ApiErrorResponse is returned for failed requests. Kind names the error
// class of decode failures.
type ApiErrorResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

func sendBadRequestResponse(w http.ResponseWriter, route, message string) {
	sendErrorWithCodeResponse(w, route, &ApiErrorResponse{Status: "ERROR: " + message}, http.StatusBadRequest)
}

func sendServerErrorResponse(w http.ResponseWriter, route, message string) {
	sendErrorWithCodeResponse(w, route, &ApiErrorResponse{Status: "ERROR: " + message}, http.StatusInternalServerError)
}

func sendErrorWithCodeResponse(w http.ResponseWriter, route string, response *ApiErrorResponse, errorcode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorcode)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		logrus.Errorf("error serializing json error for API %v route: %v", route, err)
	}
}

// sendDecodeErrorResponse answers a failed decode. Client errors become a 400
// with the error message, everything else a 500 with a generic message.
func sendDecodeErrorResponse(w http.ResponseWriter, route string, err error, logger logrus.FieldLogger) {
	if !services.IsClientError(err) {
		logger.WithError(err).Errorf("API %v route failed", route)
		sendErrorWithCodeResponse(w, route, &ApiErrorResponse{
			Status: "ERROR: internal error",
			Kind:   errorKind(err),
		}, http.StatusInternalServerError)
		return
	}

	response := &ApiErrorResponse{
		Status: "ERROR: " + err.Error(),
		Kind:   errorKind(err),
	}
	var hinted *services.HintedError
	if errors.As(err, &hinted) {
		response.Status = "ERROR: " + hinted.Err.Error()
		response.Hint = hinted.Hint
	}
	sendErrorWithCodeResponse(w, route, response, http.StatusBadRequest)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, abi.ErrInsufficientCalldata):
		return "InsufficientCalldata"
	case errors.Is(err, abi.ErrSelectorNotFound):
		return "SelectorNotFound"
	case errors.Is(err, abi.ErrDecode):
		return "DecodeError"
	case errors.Is(err, abi.ErrEventNotFound):
		return "EventNotFound"
	case errors.Is(err, abi.ErrAnonymousEvent):
		return "AnonymousEventUndecodable"
	case errors.Is(err, abi.ErrInvalidAbi):
		return "InvalidAbi"
	case errors.Is(err, services.ErrAbiSource):
		return "AbiSourceError"
	case errors.Is(err, services.ErrTransactionSource):
		return "TransactionSourceError"
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrCalldataTooLarge):
		return "InvalidRequest"
	}
	return ""
}

func SendOKResponse(w http.ResponseWriter, route string, data interface{}) {
	sendJsonResponse(w, route, &ApiResponse{
		Status: "OK",
		Data:   data,
	})
}

func sendJsonResponse(w http.ResponseWriter, route string, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		logrus.Errorf("error serializing json data for API %v route: %v", route, err)
	}
}

// decodeJsonBody parses the request body. Syntax and type errors are
// reported as invalid requests, abi errors keep their kind.
func decodeJsonBody(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, abi.ErrInvalidAbi) {
			return err
		}
		return fmt.Errorf("%w: %v", services.ErrInvalidRequest, err)
	}
	return nil
}
