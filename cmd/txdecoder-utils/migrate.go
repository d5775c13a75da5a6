package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/txdecoder/db"
	"github.com/ethpandaops/txdecoder/types"
)

// tables holding decoder state, in copy order
var migrateTables = []string{"contract_abis", "tx_function_signatures", "tx_unknown_signatures"}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the abi and signature store between database engines",
	Long:  "Copy stored contract abis and function signatures from one database engine to another (SQLite <-> PostgreSQL)",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("source-engine", "", "Source database engine (sqlite/pgsql)")
	migrateCmd.Flags().String("source-sqlite-path", "", "Source SQLite database path")
	migrateCmd.Flags().String("source-pgsql-host", "", "Source PostgreSQL host")
	migrateCmd.Flags().String("source-pgsql-port", "5432", "Source PostgreSQL port")
	migrateCmd.Flags().String("source-pgsql-user", "", "Source PostgreSQL user")
	migrateCmd.Flags().String("source-pgsql-pass", "", "Source PostgreSQL password")
	migrateCmd.Flags().String("source-pgsql-db", "", "Source PostgreSQL database name")

	migrateCmd.Flags().String("target-engine", "", "Target database engine (sqlite/pgsql)")
	migrateCmd.Flags().String("target-sqlite-path", "", "Target SQLite database path")
	migrateCmd.Flags().String("target-pgsql-host", "", "Target PostgreSQL host")
	migrateCmd.Flags().String("target-pgsql-port", "5432", "Target PostgreSQL port")
	migrateCmd.Flags().String("target-pgsql-user", "", "Target PostgreSQL user")
	migrateCmd.Flags().String("target-pgsql-pass", "", "Target PostgreSQL password")
	migrateCmd.Flags().String("target-pgsql-db", "", "Target PostgreSQL database name")

	migrateCmd.Flags().String("limit-tables", "", "Limit tables to migrate (comma separated list)")
	migrateCmd.Flags().BoolP("debug", "d", false, "Enable debug mode")

	migrateCmd.MarkFlagRequired("source-engine")
	migrateCmd.MarkFlagRequired("target-engine")
}

func dbConfigFromFlags(cmd *cobra.Command, prefix string) (*types.DatabaseConfig, error) {
	engine, _ := cmd.Flags().GetString(prefix + "-engine")
	config := &types.DatabaseConfig{Engine: engine}

	switch engine {
	case "sqlite":
		path, _ := cmd.Flags().GetString(prefix + "-sqlite-path")
		if path == "" {
			return nil, fmt.Errorf("--%v-sqlite-path is required for sqlite", prefix)
		}
		config.Sqlite = &types.SqliteDatabaseConfig{File: path}
	case "pgsql":
		config.Pgsql = &types.PgsqlDatabaseConfig{}
		config.Pgsql.Host, _ = cmd.Flags().GetString(prefix + "-pgsql-host")
		config.Pgsql.Port, _ = cmd.Flags().GetString(prefix + "-pgsql-port")
		config.Pgsql.Username, _ = cmd.Flags().GetString(prefix + "-pgsql-user")
		config.Pgsql.Password, _ = cmd.Flags().GetString(prefix + "-pgsql-pass")
		config.Pgsql.Name, _ = cmd.Flags().GetString(prefix + "-pgsql-db")
	default:
		return nil, fmt.Errorf("unknown %v database engine: %v", prefix, engine)
	}
	return config, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	limitTablesStr, _ := cmd.Flags().GetString("limit-tables")

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	sourceConfig, err := dbConfigFromFlags(cmd, "source")
	if err != nil {
		return err
	}
	targetConfig, err := dbConfigFromFlags(cmd, "target")
	if err != nil {
		return err
	}

	tables := migrateTables
	if limitTablesStr != "" {
		limitTables := strings.Split(limitTablesStr, ",")
		tables = slices.DeleteFunc(slices.Clone(migrateTables), func(table string) bool {
			return !slices.Contains(limitTables, table)
		})
	}

	if err := migrateDatabase(sourceConfig, targetConfig, tables); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}

	logrus.Info("Migration completed successfully")
	return nil
}

func migrateDatabase(source, target *types.DatabaseConfig, tables []string) error {
	var sourceDb *sqlx.DB
	var err error

	if source.Engine == "sqlite" {
		sourceDb, err = sqlx.Open("sqlite", source.Sqlite.File)
	} else {
		sourceDb, err = sqlx.Open("pgx", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			source.Pgsql.Username, source.Pgsql.Password, source.Pgsql.Host, source.Pgsql.Port, source.Pgsql.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to connect to source db: %v", err)
	}
	defer sourceDb.Close()

	if err := db.InitDB(target); err != nil {
		return fmt.Errorf("failed to connect to target db: %v", err)
	}
	defer db.MustCloseDB()
	if err := db.ApplyEmbeddedDbSchema(-2); err != nil {
		return fmt.Errorf("failed to initialize target schema: %v", err)
	}

	for _, table := range tables {
		logrus.Printf("Migrating table: %s", table)
		count, err := migrateTable(sourceDb, table, target.Engine)
		if err != nil {
			return err
		}
		logrus.Printf("Migrated %v rows of %s", count, table)
	}

	return nil
}

func migrateTable(sourceDb *sqlx.DB, table string, targetEngine string) (int, error) {
	rows, err := sourceDb.Queryx(fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("failed to read from source table %s: %v", table, err)
	}
	defer rows.Close()

	processed := 0
	err = db.RunDBTransaction(func(tx *sqlx.Tx) error {
		for rows.Next() {
			row := make(map[string]interface{})
			if err := rows.MapScan(row); err != nil {
				return fmt.Errorf("failed to scan row: %v", err)
			}

			cols := make([]string, 0, len(row))
			vals := make([]string, 0, len(row))
			args := make([]interface{}, 0, len(row))
			for col, val := range row {
				cols = append(cols, fmt.Sprintf("\"%s\"", col))
				if targetEngine == "sqlite" {
					vals = append(vals, "?")
				} else {
					vals = append(vals, fmt.Sprintf("$%d", len(args)+1))
				}
				args = append(args, val)
			}

			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ","), strings.Join(vals, ","))
			if targetEngine == "sqlite" {
				query = strings.Replace(query, "INSERT INTO", "INSERT OR REPLACE INTO", 1)
			} else {
				query += " ON CONFLICT DO NOTHING"
			}

			if _, err := tx.Exec(query, args...); err != nil {
				return fmt.Errorf("failed to insert into target table %s: %v", table, err)
			}
			processed++
		}
		return rows.Err()
	})
	if err != nil {
		return processed, err
	}
	return processed, nil
}
