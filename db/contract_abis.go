package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ethpandaops/txdecoder/dbtypes"
)

// GetContractAbi returns the stored abi of a contract, nil if unknown.
func GetContractAbi(ctx context.Context, network string, address []byte) (*dbtypes.ContractAbi, error) {
	contractAbi := dbtypes.ContractAbi{}
	err := ReaderDb.GetContext(ctx, &contractAbi, `
	SELECT network, address, abi, source, fetched_at
	FROM contract_abis
	WHERE network = $1 AND address = $2
	`, network, address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contractAbi, nil
}

func InsertContractAbi(ctx context.Context, tx *sqlx.Tx, contractAbi *dbtypes.ContractAbi) error {
	_, err := tx.ExecContext(ctx, EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql: `
			INSERT INTO contract_abis (
				network, address, abi, source, fetched_at
			) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (network, address) DO UPDATE SET
				abi = excluded.abi,
				source = excluded.source,
				fetched_at = excluded.fetched_at`,
		dbtypes.DBEngineSqlite: `
			INSERT OR REPLACE INTO contract_abis (
				network, address, abi, source, fetched_at
			) VALUES ($1, $2, $3, $4, $5)`,
	}),
		contractAbi.Network, contractAbi.Address, contractAbi.Abi, contractAbi.Source, contractAbi.FetchedAt)
	return err
}

func DeleteContractAbi(ctx context.Context, tx *sqlx.Tx, network string, address []byte) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM contract_abis WHERE network = $1 AND address = $2`, network, address)
	return err
}
