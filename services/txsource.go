package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/clients/blockscout"
	"github.com/ethpandaops/txdecoder/clients/execution"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

// TransactionSource returns the calldata and logs of a transaction.
type TransactionSource interface {
	GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error)
}

// BlockscoutApi is the subset of the blockscout client used by the services.
type BlockscoutApi interface {
	GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error)
	GetContractAbi(ctx context.Context, network string, address common.Address) ([]byte, error)
}

type rpcTxSource interface {
	GetTransaction(ctx context.Context, hash common.Hash) (*types.Transaction, error)
}

// TxSourceRouter resolves transactions through the json-rpc endpoint of a
// network if one is configured and through blockscout otherwise.
type TxSourceRouter struct {
	config     *types.Config
	blockscout BlockscoutApi
	rpcClients map[string]rpcTxSource
	logger     logrus.FieldLogger
}

func NewTxSourceRouter(config *types.Config, blockscoutApi BlockscoutApi, logger logrus.FieldLogger) *TxSourceRouter {
	router := &TxSourceRouter{
		config:     config,
		blockscout: blockscoutApi,
		rpcClients: map[string]rpcTxSource{},
		logger:     logger,
	}

	for idx := range config.Networks {
		network := &config.Networks[idx]
		if network.RpcUrl == "" {
			continue
		}
		router.rpcClients[network.Name] = execution.NewClient(network.Name, network.RpcUrl, network.Headers, network.ChainId, logger)
	}

	return router
}

func (r *TxSourceRouter) GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error) {
	networkConfig := utils.GetNetworkConfig(r.config, network)
	if networkConfig == nil {
		return nil, fmt.Errorf("%w: %w: %v is not configured", ErrTransactionSource, ErrWrongNetwork, network)
	}

	var tx *types.Transaction
	var err error
	source := "blockscout"
	if rpcClient := r.rpcClients[networkConfig.Name]; rpcClient != nil {
		source = "rpc"
		tx, err = rpcClient.GetTransaction(ctx, hash)
	} else if r.blockscout != nil {
		tx, err = r.blockscout.GetTransaction(ctx, networkConfig.Path, hash)
	} else {
		return nil, fmt.Errorf("%w: no transaction source for %v", ErrTransactionSource, network)
	}

	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"network": networkConfig.Name,
			"source":  source,
			"tx":      hash.Hex(),
		}).Debugf("transaction lookup failed: %v", err)
		return nil, classifyTxSourceError(err)
	}

	tx.Network = networkConfig.Name
	return tx, nil
}

func classifyTxSourceError(err error) error {
	switch {
	case errors.Is(err, blockscout.ErrTransactionNotFound), errors.Is(err, execution.ErrTransactionNotFound):
		return fmt.Errorf("%w: %w: %v", ErrTransactionSource, ErrTransactionNotFound, err)
	case errors.Is(err, blockscout.ErrUnknownNetwork), errors.Is(err, execution.ErrChainIdMismatch):
		return fmt.Errorf("%w: %w: %v", ErrTransactionSource, ErrWrongNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrTransactionSource, err)
}
