package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/metrics"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

// DecodeRequest asks for the function call of a transaction decoded against
// the supplied abi.
type DecodeRequest struct {
	TxHash  common.Hash   `json:"tx_hash"`
	Abi     *abi.Contract `json:"abi"`
	Network string        `json:"network"`
}

// DecodeResponse holds the decoded call. Method is nil if the call went to
// the fallback function.
type DecodeResponse struct {
	Method *abi.DecodedCall `json:"method"`
}

// EventsRequest asks for all logs of a transaction decoded against the abis
// of their emitting contracts.
type EventsRequest struct {
	TxHash  common.Hash `json:"tx_hash"`
	Network string      `json:"network"`
}

// EventsResponse holds one entry per log in log order. Entries are nil for
// logs that could not be decoded.
type EventsResponse struct {
	Events []*abi.DecodedEvent `json:"events"`
}

type DecoderService struct {
	config     *types.Config
	txSource   TransactionSource
	abiRepo    AbiRepository
	signatures *SignatureService
	logger     logrus.FieldLogger
}

// abiResult is the outcome of one abi fetch within an event batch.
type abiResult struct {
	contract *abi.Contract
	err      error
}

func NewDecoderService(config *types.Config, txSource TransactionSource, abiRepo AbiRepository, signatures *SignatureService, logger logrus.FieldLogger) *DecoderService {
	return &DecoderService{
		config:     config,
		txSource:   txSource,
		abiRepo:    abiRepo,
		signatures: signatures,
		logger:     logger,
	}
}

func observeRequest(kind string, startTime time.Time, err error) {
	result := "ok"
	if err != nil {
		if IsClientError(err) {
			result = "client_error"
		} else {
			result = "error"
		}
	}
	metrics.DecodeRequests.WithLabelValues(kind, result).Inc()
	metrics.DecodeDuration.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())
}

// DecodeTransaction fetches the transaction and decodes its calldata.
func (ds *DecoderService) DecodeTransaction(ctx context.Context, req *DecodeRequest) (response *DecodeResponse, err error) {
	defer func(startTime time.Time) {
		observeRequest("function", startTime, err)
	}(time.Now())

	if req.Abi == nil {
		return nil, fmt.Errorf("%w: missing abi", ErrInvalidRequest)
	}

	tx, err := ds.txSource.GetTransaction(ctx, req.Network, req.TxHash)
	if err != nil {
		return nil, err
	}

	if maxSize := ds.config.Decoder.MaxCalldataSize; maxSize > 0 && len(tx.Input) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceed the limit of %d", ErrCalldataTooLarge, len(tx.Input), maxSize)
	}

	call, err := req.Abi.DecodeCall(tx.Input)
	if err != nil {
		ds.logger.WithFields(logrus.Fields{
			"tx":      tx.Hash.Hex(),
			"network": tx.Network,
		}).Debugf("calldata decode failed: %v", err)

		if errors.Is(err, abi.ErrSelectorNotFound) {
			return nil, ds.withSelectorHint(ctx, tx.Input, err)
		}
		return nil, err
	}

	if ds.signatures != nil {
		ds.signatures.RecordContract(ctx, req.Abi)
	}

	return &DecodeResponse{
		Method: call,
	}, nil
}

func (ds *DecoderService) withSelectorHint(ctx context.Context, input []byte, err error) error {
	if ds.signatures == nil || len(input) < 4 {
		return err
	}

	var selector [4]byte
	copy(selector[:], input[:4])
	lookup, lookupErr := ds.signatures.LookupSelector(ctx, selector)
	if lookupErr != nil {
		ds.logger.Debugf("signature lookup for 0x%x failed: %v", selector[:], lookupErr)
		return err
	}
	if lookup.Status != types.TxSigStatusFound {
		return err
	}

	// signature databases contain colliding and malformed entries
	fn, parseErr := abi.ParseSignature(lookup.Signature)
	if parseErr != nil || fn.Selector() != selector {
		ds.logger.Debugf("ignoring signature %q for selector 0x%x", lookup.Signature, selector[:])
		return err
	}

	return &HintedError{
		Err:  err,
		Hint: fmt.Sprintf("selector matches %v", fn.Signature()),
	}
}

// DecodeEvents fetches the transaction and decodes every log with the abi of
// its emitting contract. Each distinct contract abi is fetched once.
func (ds *DecoderService) DecodeEvents(ctx context.Context, req *EventsRequest) (response *EventsResponse, err error) {
	defer func(startTime time.Time) {
		observeRequest("events", startTime, err)
	}(time.Now())

	tx, err := ds.txSource.GetTransaction(ctx, req.Network, req.TxHash)
	if err != nil {
		return nil, err
	}

	contracts := ds.fetchContractAbis(ctx, tx.Network, tx.Logs)
	events := decodeLogBatch(tx.Logs, contracts, ds.logger)

	return &EventsResponse{
		Events: events,
	}, nil
}

// fetchContractAbis resolves the abi of every distinct log address. Fetch
// failures are kept in the result map and never abort the batch.
func (ds *DecoderService) fetchContractAbis(ctx context.Context, network string, logs []*abi.TxLog) map[common.Address]*abiResult {
	contracts := make(map[common.Address]*abiResult, len(logs))
	contractsMutex := sync.Mutex{}

	limit := int(ds.config.Decoder.MaxParallelAbiFetches)
	if limit <= 0 {
		limit = 1
	}

	group := errgroup.Group{}
	group.SetLimit(limit)

	seen := make(map[common.Address]bool, len(logs))
	for _, log := range logs {
		if seen[log.Address] {
			continue
		}
		seen[log.Address] = true

		address := log.Address
		group.Go(func() error {
			defer utils.HandleSubroutinePanic("DecoderService.fetchContractAbis")

			result := &abiResult{}
			result.contract, result.err = ds.abiRepo.GetContractAbi(ctx, network, address)
			if result.err == nil && result.contract == nil {
				result.err = fmt.Errorf("%w: empty abi for %v", ErrAbiSource, address.Hex())
			}

			contractsMutex.Lock()
			contracts[address] = result
			contractsMutex.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	return contracts
}

// decodeLogBatch decodes logs against the resolved contract abis. The result
// holds one entry per log, nil where the abi is missing or decoding failed.
func decodeLogBatch(logs []*abi.TxLog, contracts map[common.Address]*abiResult, logger logrus.FieldLogger) []*abi.DecodedEvent {
	events := make([]*abi.DecodedEvent, len(logs))
	for i, log := range logs {
		result := contracts[log.Address]
		if result == nil || result.err != nil {
			if result != nil {
				logger.Debugf("no abi for log %v of %v: %v", log.Index, log.Address.Hex(), result.err)
			}
			continue
		}

		decoded, err := result.contract.DecodeLog(log)
		if err != nil {
			logger.Debugf("log %v of %v not decoded: %v", log.Index, log.Address.Hex(), err)
			continue
		}
		events[i] = decoded
	}
	return events
}
