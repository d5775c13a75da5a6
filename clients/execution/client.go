package execution

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/types"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrChainIdMismatch     = errors.New("chain id mismatch")
)

// Client fetches transactions and receipts from an execution layer json-rpc
// endpoint.
type Client struct {
	name     string
	endpoint string
	headers  map[string]string
	chainId  uint64
	logger   logrus.FieldLogger

	initMutex sync.Mutex
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient is used to create a new execution client. A non-zero chainId is
// verified against the endpoint on first use.
func NewClient(name, endpoint string, headers map[string]string, chainId uint64, logger logrus.FieldLogger) *Client {
	return &Client{
		name:     name,
		endpoint: endpoint,
		headers:  headers,
		chainId:  chainId,
		logger:   logger.WithField("client", name),
	}
}

func (ec *Client) GetName() string {
	return ec.name
}

func (ec *Client) Initialize(ctx context.Context) error {
	ec.initMutex.Lock()
	defer ec.initMutex.Unlock()

	if ec.ethClient != nil {
		return nil
	}

	rpcClient, err := rpc.DialContext(ctx, ec.endpoint)
	if err != nil {
		return err
	}

	for hKey, hVal := range ec.headers {
		rpcClient.SetHeader(hKey, hVal)
	}

	ethClient := ethclient.NewClient(rpcClient)
	if ec.chainId != 0 {
		chainId, err := ethClient.ChainID(ctx)
		if err != nil {
			rpcClient.Close()
			return fmt.Errorf("could not get chain id: %w", err)
		}
		if chainId.Cmp(new(big.Int).SetUint64(ec.chainId)) != 0 {
			rpcClient.Close()
			return fmt.Errorf("%w: endpoint reports %v, expected %v", ErrChainIdMismatch, chainId, ec.chainId)
		}
	}

	ec.rpcClient = rpcClient
	ec.ethClient = ethClient
	ec.logger.Debugf("connected to execution endpoint")

	return nil
}

// GetTransaction returns the input and logs of a transaction. Logs are empty
// as long as the transaction is pending.
func (ec *Client) GetTransaction(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	if err := ec.Initialize(ctx); err != nil {
		return nil, err
	}

	tx, isPending, err := ec.ethClient.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, fmt.Errorf("%w: %v", ErrTransactionNotFound, hash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("could not get transaction %v: %w", hash.Hex(), err)
	}

	result := &types.Transaction{
		Hash:   hash,
		Status: "pending",
		Input:  tx.Data(),
		To:     tx.To(),
		Logs:   []*abi.TxLog{},
	}
	if isPending {
		return result, nil
	}

	receipt, err := ec.ethClient.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get receipt of %v: %w", hash.Hex(), err)
	}

	if receipt.Status == 1 {
		result.Status = "success"
	} else {
		result.Status = "failed"
	}
	for _, log := range receipt.Logs {
		result.Logs = append(result.Logs, abi.NewTxLog(log.Address, log.Data, log.Topics, fmt.Sprintf("%d", log.Index)))
	}

	return result, nil
}

func (ec *Client) Close() {
	ec.initMutex.Lock()
	defer ec.initMutex.Unlock()

	if ec.rpcClient != nil {
		ec.rpcClient.Close()
		ec.rpcClient = nil
		ec.ethClient = nil
	}
}
