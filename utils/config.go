package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/txdecoder/config"
	"github.com/ethpandaops/txdecoder/types"
)

// Config is the globally accessible configuration
var Config *types.Config

// ReadConfig will process a configuration
func ReadConfig(cfg *types.Config, path string) error {
	err := readConfigFile(cfg, path)
	if err != nil {
		return err
	}

	err = readConfigEnv(cfg)
	if err != nil {
		return fmt.Errorf("error reading config from environment: %w", err)
	}

	applyConfigDefaults(cfg)

	names := map[string]bool{}
	for idx := range cfg.Networks {
		network := &cfg.Networks[idx]
		network.Name = strings.Trim(network.Name, "/ ")
		if network.Name == "" {
			return fmt.Errorf("network %d has no name", idx)
		}
		if names[network.Name] {
			return fmt.Errorf("duplicate network name %v", network.Name)
		}
		names[network.Name] = true
		if network.Path == "" {
			network.Path = network.Name
		}
		if network.RpcUrl == "" && cfg.Blockscout.BaseUrl == "" {
			return fmt.Errorf("network %v has neither an rpc endpoint nor a blockscout base url", network.Name)
		}
	}

	log.WithFields(log.Fields{
		"networks":   len(cfg.Networks),
		"blockscout": cfg.Blockscout.BaseUrl,
		"database":   cfg.Database.Engine,
	}).Infof("did init config")

	return nil
}

func applyConfigDefaults(cfg *types.Config) {
	if cfg.Blockscout.Timeout == 0 {
		cfg.Blockscout.Timeout = 10 * time.Second
	}
	if cfg.AbiCache.Timeout == 0 {
		cfg.AbiCache.Timeout = 6 * time.Hour
	}
	if cfg.TxSignature.LookupTimeout == 0 {
		cfg.TxSignature.LookupTimeout = 5 * time.Second
	}
	if cfg.TxSignature.RecheckTimeout == 0 {
		cfg.TxSignature.RecheckTimeout = 24 * time.Hour
	}
	if cfg.Decoder.MaxParallelAbiFetches == 0 {
		cfg.Decoder.MaxParallelAbiFetches = 4
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 4 * 1024 * 1024
	}
}

func readConfigFile(cfg *types.Config, path string) error {
	if path == "" {
		return yaml.Unmarshal([]byte(config.DefaultConfigYml), cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %v", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		return fmt.Errorf("error decoding config file %v: %v", path, err)
	}

	return nil
}

func readConfigEnv(cfg *types.Config) error {
	return envconfig.Process("", cfg)
}

// GetNetworkConfig returns the configuration of a named network or nil.
func GetNetworkConfig(cfg *types.Config, name string) *types.NetworkConfig {
	name = strings.Trim(name, "/ ")
	for idx := range cfg.Networks {
		if cfg.Networks[idx].Name == name {
			return &cfg.Networks[idx]
		}
	}
	return nil
}
