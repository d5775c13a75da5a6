package db

import (
	"embed"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/dbtypes"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

//go:embed schema/pgsql/*.sql
var EmbedPgsqlSchema embed.FS

//go:embed schema/sqlite/*.sql
var EmbedSqliteSchema embed.FS

// DB is a pointer to the decoder database
var DbEngine dbtypes.DBEngineType
var WriterDb *sqlx.DB
var ReaderDb *sqlx.DB

var logger = logrus.StandardLogger().WithField("module", "db")

func checkDbConn(dbConn *sqlx.DB, dataBaseName string) error {
	// The golang sql driver does not properly implement PingContext
	// therefore we use a timer to catch db connection timeouts
	dbConnectionTimeout := time.NewTimer(15 * time.Second)
	defer dbConnectionTimeout.Stop()

	pingResult := make(chan error, 1)
	go func() {
		pingResult <- dbConn.Ping()
	}()

	select {
	case err := <-pingResult:
		if err != nil {
			return fmt.Errorf("unable to ping %s: %w", dataBaseName, err)
		}
		return nil
	case <-dbConnectionTimeout.C:
		return fmt.Errorf("timeout while connecting to %s", dataBaseName)
	}
}

func initSqlite(config *types.SqliteDatabaseConfig) (*sqlx.DB, error) {
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 50
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.File == ":memory:" {
		// every connection would open its own empty in-memory database
		config.MaxOpenConns = 1
	}
	if config.MaxOpenConns < config.MaxIdleConns {
		config.MaxIdleConns = config.MaxOpenConns
	}

	logger.Infof("initializing sqlite connection to %v with %v/%v conn limit", config.File, config.MaxIdleConns, config.MaxOpenConns)
	dbConn, err := sqlx.Open("sqlite", config.File)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	if err := checkDbConn(dbConn, "database"); err != nil {
		return nil, err
	}
	dbConn.SetConnMaxIdleTime(0)
	dbConn.SetConnMaxLifetime(0)
	dbConn.SetMaxOpenConns(config.MaxOpenConns)
	dbConn.SetMaxIdleConns(config.MaxIdleConns)

	if _, err := dbConn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("error enabling sqlite wal mode: %w", err)
	}

	return dbConn, nil
}

func initPgsql(config *types.PgsqlDatabaseConfig) (*sqlx.DB, error) {
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 50
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxOpenConns < config.MaxIdleConns {
		config.MaxIdleConns = config.MaxOpenConns
	}

	logger.Infof("initializing pgsql connection to %v with %v/%v conn limit", config.Host, config.MaxIdleConns, config.MaxOpenConns)
	dbConn, err := sqlx.Open("pgx", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", config.Username, config.Password, config.Host, config.Port, config.Name))
	if err != nil {
		return nil, fmt.Errorf("error getting pgsql database: %w", err)
	}

	if err := checkDbConn(dbConn, "database"); err != nil {
		return nil, err
	}
	dbConn.SetConnMaxIdleTime(time.Second * 30)
	dbConn.SetConnMaxLifetime(time.Second * 60)
	dbConn.SetMaxOpenConns(config.MaxOpenConns)
	dbConn.SetMaxIdleConns(config.MaxIdleConns)

	return dbConn, nil
}

// InitDB opens the configured database.
func InitDB(config *types.DatabaseConfig) error {
	switch config.Engine {
	case "sqlite":
		if config.Sqlite == nil {
			return fmt.Errorf("missing sqlite database config")
		}
		dbConn, err := initSqlite(config.Sqlite)
		if err != nil {
			return err
		}
		DbEngine = dbtypes.DBEngineSqlite
		WriterDb, ReaderDb = dbConn, dbConn
	case "pgsql":
		if config.Pgsql == nil {
			return fmt.Errorf("missing pgsql database config")
		}
		dbConn, err := initPgsql(config.Pgsql)
		if err != nil {
			return err
		}
		DbEngine = dbtypes.DBEnginePgsql
		WriterDb, ReaderDb = dbConn, dbConn
	default:
		return fmt.Errorf("unknown database engine type: %s", config.Engine)
	}
	logger.Infof("%v database ready", DbEngine)
	return nil
}

func MustInitDB(config *types.DatabaseConfig) {
	if err := InitDB(config); err != nil {
		utils.LogFatal(err, "error initializing database", 0)
	}
}

// IsInitialized reports whether a database connection is available.
func IsInitialized() bool {
	return WriterDb != nil
}

func MustCloseDB() {
	if WriterDb == nil {
		return
	}
	err := WriterDb.Close()
	if err != nil {
		logger.Errorf("Error closing db connection: %v", err)
	}
	WriterDb = nil
	ReaderDb = nil
}

// ApplyEmbeddedDbSchema migrates the schema. version -2 applies all pending
// migrations, -1 the next one, anything else migrates up to that version.
func ApplyEmbeddedDbSchema(version int64) error {
	var engineDialect string
	var schemaDirectory string
	switch DbEngine {
	case dbtypes.DBEnginePgsql:
		goose.SetBaseFS(EmbedPgsqlSchema)
		engineDialect = "postgres"
		schemaDirectory = "schema/pgsql"
	case dbtypes.DBEngineSqlite:
		goose.SetBaseFS(EmbedSqliteSchema)
		engineDialect = "sqlite3"
		schemaDirectory = "schema/sqlite"
	default:
		return fmt.Errorf("unknown database engine")
	}

	if err := goose.SetDialect(engineDialect); err != nil {
		return err
	}

	if version == -2 {
		if err := goose.Up(WriterDb.DB, schemaDirectory); err != nil {
			return err
		}
	} else if version == -1 {
		if err := goose.UpByOne(WriterDb.DB, schemaDirectory); err != nil {
			return err
		}
	} else {
		if err := goose.UpTo(WriterDb.DB, schemaDirectory, version); err != nil {
			return err
		}
	}

	return nil
}

func EngineQuery(queryMap map[dbtypes.DBEngineType]string) string {
	if queryMap[DbEngine] != "" {
		return queryMap[DbEngine]
	}
	return queryMap[dbtypes.DBEngineAny]
}

func RunDBTransaction(handler func(tx *sqlx.Tx) error) error {
	tx, err := WriterDb.Beginx()
	if err != nil {
		return fmt.Errorf("error starting db transaction: %w", err)
	}

	defer tx.Rollback()

	err = handler(tx)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("error committing db transaction: %w", err)
	}
	return nil
}
