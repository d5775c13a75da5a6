package services

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/types"
)

const erc20Abi = `[
	{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address","internalType":"address"},{"name":"value","type":"uint256","internalType":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

var (
	transferTopic = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	testTxHash    = common.HexToHash("0x6b6a8f5cb7ef3e3a3c0a0c7f8c3e1c2b2f9c0e4e1a3d6b5c7f8e9d0a1b2c3d4e")
	tokenA        = common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenB        = common.HexToAddress("0x000000000000000000000000000000000000000b")
	holder        = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func testConfig() *types.Config {
	config := &types.Config{}
	config.Networks = []types.NetworkConfig{
		{Name: "eth/mainnet", Path: "eth/mainnet"},
		{Name: "xdai/mainnet", Path: "xdai/mainnet"},
	}
	config.Blockscout.BaseUrl = "http://blockscout.invalid"
	config.Decoder.MaxParallelAbiFetches = 4
	config.AbiCache.DisableDbStore = true
	config.TxSignature.DisableLookup = true
	return config
}

func mustParseAbi(t *testing.T, data string) *abi.Contract {
	t.Helper()
	contract, err := abi.ParseJSON([]byte(data))
	require.NoError(t, err)
	return contract
}

func transferLog(address common.Address, to common.Address, amount int64, index string) *abi.TxLog {
	return abi.NewTxLog(
		address,
		common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
		[]common.Hash{
			transferTopic,
			common.BytesToHash(holder.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		index,
	)
}

type fakeTxSource struct {
	txs map[common.Hash]*types.Transaction
	err error
}

func (s *fakeTxSource) GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	tx := s.txs[hash]
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	tx.Network = network
	return tx, nil
}

type fakeAbiRepository struct {
	mutex     sync.Mutex
	contracts map[common.Address]*abi.Contract
	calls     map[common.Address]int
}

func newFakeAbiRepository(contracts map[common.Address]*abi.Contract) *fakeAbiRepository {
	return &fakeAbiRepository{
		contracts: contracts,
		calls:     map[common.Address]int{},
	}
}

func (r *fakeAbiRepository) GetContractAbi(ctx context.Context, network string, address common.Address) (*abi.Contract, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls[address]++

	contract := r.contracts[address]
	if contract == nil {
		return nil, errors.Join(ErrAbiSource, errors.New("contract not verified"))
	}
	return contract, nil
}

type fakeBlockscout struct {
	mutex    sync.Mutex
	abis     map[common.Address]string
	txs      map[common.Hash]*types.Transaction
	abiCalls int
	networks []string
	err      error
}

func (b *fakeBlockscout) GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.networks = append(b.networks, network)
	if b.err != nil {
		return nil, b.err
	}
	tx := b.txs[hash]
	if tx == nil {
		return nil, errors.New("no such tx")
	}
	return tx, nil
}

func (b *fakeBlockscout) GetContractAbi(ctx context.Context, network string, address common.Address) ([]byte, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.abiCalls++
	b.networks = append(b.networks, network)
	if b.err != nil {
		return nil, b.err
	}
	abiJson, ok := b.abis[address]
	if !ok {
		return nil, errors.New("contract not verified")
	}
	return []byte(abiJson), nil
}
