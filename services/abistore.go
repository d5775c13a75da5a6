package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/cache"
	"github.com/ethpandaops/txdecoder/clients/blockscout"
	"github.com/ethpandaops/txdecoder/db"
	"github.com/ethpandaops/txdecoder/dbtypes"
	"github.com/ethpandaops/txdecoder/metrics"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

// AbiRepository resolves the abi of a deployed contract.
type AbiRepository interface {
	GetContractAbi(ctx context.Context, network string, address common.Address) (*abi.Contract, error)
}

// AbiStore looks up contract abis in the tiered cache, then in the database
// and finally on blockscout. Fetched abis are written back to both stores.
type AbiStore struct {
	config     *types.Config
	cache      *cache.TieredCache
	blockscout BlockscoutApi
	signatures *SignatureService
	logger     logrus.FieldLogger
}

func NewAbiStore(config *types.Config, abiCache *cache.TieredCache, blockscoutApi BlockscoutApi, signatures *SignatureService, logger logrus.FieldLogger) *AbiStore {
	store := &AbiStore{
		config:     config,
		cache:      abiCache,
		blockscout: blockscoutApi,
		signatures: signatures,
		logger:     logger,
	}

	if abiCache != nil {
		metrics.AddPreCollectFn(func() {
			metrics.AbiCacheEntries.Set(float64(abiCache.LocalEntryCount()))
		})
	}

	return store
}

func abiCacheKey(network string, address common.Address) string {
	return fmt.Sprintf("abi:%v:%v", network, address.Hex())
}

func (s *AbiStore) useDb() bool {
	return !s.config.AbiCache.DisableDbStore && db.IsInitialized()
}

func (s *AbiStore) GetContractAbi(ctx context.Context, network string, address common.Address) (*abi.Contract, error) {
	networkConfig := utils.GetNetworkConfig(s.config, network)
	if networkConfig == nil {
		return nil, fmt.Errorf("%w: %w: %v is not configured", ErrAbiSource, ErrWrongNetwork, network)
	}
	network = networkConfig.Name

	abiJson, source, err := s.loadAbiJson(ctx, networkConfig, address)
	if err != nil {
		return nil, err
	}

	contract, err := abi.ParseJSON(abiJson)
	if err != nil {
		metrics.AbiFetches.WithLabelValues(source, "invalid").Inc()
		// abis from a store are not client input
		return nil, fmt.Errorf("%w: abi of %v from %v: %v", ErrAbiSource, address.Hex(), source, err)
	}
	metrics.AbiFetches.WithLabelValues(source, "found").Inc()

	if source == "blockscout" {
		s.storeAbi(ctx, network, address, abiJson)
	}
	if s.signatures != nil {
		s.signatures.RecordContract(ctx, contract)
	}

	return contract, nil
}

func (s *AbiStore) loadAbiJson(ctx context.Context, networkConfig *types.NetworkConfig, address common.Address) ([]byte, string, error) {
	network := networkConfig.Name

	if s.cache != nil {
		var cached string
		err := s.cache.Get(ctx, abiCacheKey(network, address), &cached)
		if err == nil {
			return []byte(cached), "cache", nil
		}
		if !errors.Is(err, cache.CacheMissError) {
			s.logger.WithError(err).Debugf("abi cache lookup for %v failed", address.Hex())
		}
	}

	if s.useDb() {
		stored, err := db.GetContractAbi(ctx, network, address.Bytes())
		if err != nil {
			s.logger.WithError(err).Warnf("abi db lookup for %v failed", address.Hex())
		} else if stored != nil {
			if s.cache != nil {
				s.setCache(ctx, network, address, stored.Abi)
			}
			return []byte(stored.Abi), "db", nil
		}
	}

	if s.blockscout == nil {
		metrics.AbiFetches.WithLabelValues("blockscout", "error").Inc()
		return nil, "", fmt.Errorf("%w: no abi source for %v", ErrAbiSource, address.Hex())
	}

	abiJson, err := s.blockscout.GetContractAbi(ctx, networkConfig.Path, address)
	if err != nil {
		metrics.AbiFetches.WithLabelValues("blockscout", "error").Inc()
		if errors.Is(err, blockscout.ErrUnknownNetwork) {
			return nil, "", fmt.Errorf("%w: %w: %v", ErrAbiSource, ErrWrongNetwork, err)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrAbiSource, err)
	}

	s.logger.Debugf("fetched abi of %v from blockscout %v", address.Hex(), network)
	return abiJson, "blockscout", nil
}

func (s *AbiStore) setCache(ctx context.Context, network string, address common.Address, abiJson string) {
	err := s.cache.Set(ctx, abiCacheKey(network, address), abiJson, s.config.AbiCache.Timeout)
	if err != nil {
		s.logger.WithError(err).Warnf("failed caching abi of %v", address.Hex())
	}
}

func (s *AbiStore) storeAbi(ctx context.Context, network string, address common.Address, abiJson []byte) {
	if s.cache != nil {
		s.setCache(ctx, network, address, string(abiJson))
	}

	if !s.useDb() {
		return
	}

	err := db.RunDBTransaction(func(tx *sqlx.Tx) error {
		return db.InsertContractAbi(ctx, tx, &dbtypes.ContractAbi{
			Network:   network,
			Address:   address.Bytes(),
			Abi:       string(abiJson),
			Source:    "blockscout",
			FetchedAt: time.Now().Unix(),
		})
	})
	if err != nil {
		s.logger.WithError(err).Warnf("failed storing abi of %v", address.Hex())
	}
}
