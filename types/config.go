package types

import "time"

// Config is a struct to hold the configuration data
type Config struct {
	Logging struct {
		OutputLevel  string `yaml:"outputLevel" envconfig:"LOGGING_OUTPUT_LEVEL"`
		OutputStderr bool   `yaml:"outputStderr" envconfig:"LOGGING_OUTPUT_STDERR"`

		FilePath       string `yaml:"filePath" envconfig:"LOGGING_FILE_PATH"`
		FileLevel      string `yaml:"fileLevel" envconfig:"LOGGING_FILE_LEVEL"`
		FileMaxSize    int    `yaml:"fileMaxSize" envconfig:"LOGGING_FILE_MAX_SIZE"` // megabytes
		FileMaxBackups int    `yaml:"fileMaxBackups" envconfig:"LOGGING_FILE_MAX_BACKUPS"`
		FileMaxAge     int    `yaml:"fileMaxAge" envconfig:"LOGGING_FILE_MAX_AGE"` // days
	} `yaml:"logging"`

	Server struct {
		Port string `yaml:"port" envconfig:"SERVER_PORT"`
		Host string `yaml:"host" envconfig:"SERVER_HOST"`

		HttpReadTimeout  time.Duration `yaml:"httpReadTimeout" envconfig:"SERVER_HTTP_READ_TIMEOUT"`
		HttpWriteTimeout time.Duration `yaml:"httpWriteTimeout" envconfig:"SERVER_HTTP_WRITE_TIMEOUT"`
		HttpIdleTimeout  time.Duration `yaml:"httpIdleTimeout" envconfig:"SERVER_HTTP_IDLE_TIMEOUT"`
		MaxBodySize      int64         `yaml:"maxBodySize" envconfig:"SERVER_MAX_BODY_SIZE"`
	} `yaml:"server"`

	Api struct {
		CorsOrigins []string `yaml:"corsOrigins" envconfig:"API_CORS_ORIGINS"`

		// Rate limiting and authentication
		AuthSecret              string   `yaml:"authSecret" envconfig:"API_AUTH_SECRET"`
		RequireAuth             bool     `yaml:"requireAuth" envconfig:"API_REQUIRE_AUTH"`
		DefaultRateLimit        uint     `yaml:"defaultRateLimit" envconfig:"API_DEFAULT_RATE_LIMIT"`
		DefaultRateLimitBurst   uint     `yaml:"defaultRateLimitBurst" envconfig:"API_DEFAULT_RATE_LIMIT_BURST"`
		DisableDefaultRateLimit bool     `yaml:"disableDefaultRateLimit" envconfig:"API_DISABLE_DEFAULT_RATE_LIMIT"`
		WhitelistedIPs          []string `yaml:"whitelistedIPs" envconfig:"API_WHITELISTED_IPS"`
	} `yaml:"api"`

	RateLimit struct {
		ProxyCount uint `yaml:"proxyCount" envconfig:"RATELIMIT_PROXY_COUNT"`
	} `yaml:"rateLimit"`

	// Networks that can be addressed by requests, e.g. "eth/mainnet".
	Networks []NetworkConfig `yaml:"networks"`

	Blockscout struct {
		BaseUrl string            `yaml:"baseUrl" envconfig:"BLOCKSCOUT_BASE_URL"`
		Timeout time.Duration     `yaml:"timeout" envconfig:"BLOCKSCOUT_TIMEOUT"`
		Headers map[string]string `yaml:"headers"`
	} `yaml:"blockscout"`

	AbiCache struct {
		LocalCacheSize   int           `yaml:"localCacheSize" envconfig:"ABICACHE_LOCAL_CACHE_SIZE"` // megabytes
		RedisCacheAddr   string        `yaml:"redisCacheAddr" envconfig:"ABICACHE_REDIS_CACHE_ADDR"`
		RedisCachePrefix string        `yaml:"redisCachePrefix" envconfig:"ABICACHE_REDIS_CACHE_PREFIX"`
		Timeout          time.Duration `yaml:"timeout" envconfig:"ABICACHE_TIMEOUT"`
		DisableDbStore   bool          `yaml:"disableDbStore" envconfig:"ABICACHE_DISABLE_DB_STORE"`
	} `yaml:"abiCache"`

	Database DatabaseConfig `yaml:"database"`

	TxSignature struct {
		DisableLookup  bool          `yaml:"disableLookup" envconfig:"TXSIG_DISABLE_LOOKUP"`
		Disable4Bytes  bool          `yaml:"disable4Bytes" envconfig:"TXSIG_DISABLE_4BYTES"`
		LookupTimeout  time.Duration `yaml:"lookupTimeout" envconfig:"TXSIG_LOOKUP_TIMEOUT"`
		RecheckTimeout time.Duration `yaml:"recheckTimeout" envconfig:"TXSIG_RECHECK_TIMEOUT"`
	} `yaml:"txsig"`

	Decoder struct {
		MaxParallelAbiFetches uint `yaml:"maxParallelAbiFetches" envconfig:"DECODER_MAX_PARALLEL_ABI_FETCHES"`
		MaxCalldataSize       int  `yaml:"maxCalldataSize" envconfig:"DECODER_MAX_CALLDATA_SIZE"`
	} `yaml:"decoder"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
		Public  bool   `yaml:"public" envconfig:"METRICS_PUBLIC"`
		Host    string `yaml:"host" envconfig:"METRICS_HOST"`
		Port    string `yaml:"port" envconfig:"METRICS_PORT"`
	} `yaml:"metrics"`
}

type NetworkConfig struct {
	Name    string            `yaml:"name"`    // request name, e.g. "eth/mainnet"
	Path    string            `yaml:"path"`    // blockscout path, defaults to name
	RpcUrl  string            `yaml:"rpcUrl"`  // optional json-rpc endpoint, preferred over blockscout
	ChainId uint64            `yaml:"chainId"` // expected chain id of the rpc endpoint, 0 = unchecked
	Headers map[string]string `yaml:"headers"`
}

type DatabaseConfig struct {
	Engine string                `yaml:"engine" envconfig:"DATABASE_ENGINE"`
	Sqlite *SqliteDatabaseConfig `yaml:"sqlite"`
	Pgsql  *PgsqlDatabaseConfig  `yaml:"pgsql"`
}

type SqliteDatabaseConfig struct {
	File         string `yaml:"file" envconfig:"DATABASE_SQLITE_FILE"`
	MaxOpenConns int    `yaml:"maxOpenConns" envconfig:"DATABASE_SQLITE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"maxIdleConns" envconfig:"DATABASE_SQLITE_MAX_IDLE_CONNS"`
}

type PgsqlDatabaseConfig struct {
	Username     string `yaml:"user" envconfig:"DATABASE_PGSQL_USERNAME"`
	Password     string `yaml:"password" envconfig:"DATABASE_PGSQL_PASSWORD"`
	Name         string `yaml:"name" envconfig:"DATABASE_PGSQL_NAME"`
	Host         string `yaml:"host" envconfig:"DATABASE_PGSQL_HOST"`
	Port         string `yaml:"port" envconfig:"DATABASE_PGSQL_PORT"`
	MaxOpenConns int    `yaml:"maxOpenConns" envconfig:"DATABASE_PGSQL_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"maxIdleConns" envconfig:"DATABASE_PGSQL_MAX_IDLE_CONNS"`
}
