package config

import (
	_ "embed"
)

// decoder service config
//
//go:embed default.config.yml
var DefaultConfigYml string
