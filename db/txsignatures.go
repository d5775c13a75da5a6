package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ethpandaops/txdecoder/dbtypes"
	"github.com/ethpandaops/txdecoder/types"
)

func GetTxFunctionSignaturesByBytes(ctx context.Context, sigBytes []types.TxSignatureBytes) []*dbtypes.TxFunctionSignature {
	fnSigs := []*dbtypes.TxFunctionSignature{}
	if len(sigBytes) == 0 {
		return fnSigs
	}

	var sql strings.Builder
	fmt.Fprintf(&sql, `
	SELECT
		signature, bytes, name
	FROM tx_function_signatures
	WHERE bytes IN (`)
	args := make([]any, len(sigBytes))
	for i := range sigBytes {
		if i > 0 {
			fmt.Fprintf(&sql, ", ")
		}
		fmt.Fprintf(&sql, "$%v", i+1)
		args[i] = sigBytes[i][:]
	}
	fmt.Fprintf(&sql, ")")

	err := ReaderDb.SelectContext(ctx, &fnSigs, sql.String(), args...)
	if err != nil {
		logger.Errorf("Error while fetching tx function signatures: %v", err)
		return nil
	}
	return fnSigs
}

func InsertTxFunctionSignatures(ctx context.Context, tx *sqlx.Tx, txFuncSigs []*dbtypes.TxFunctionSignature) error {
	if len(txFuncSigs) == 0 {
		return nil
	}

	var sql strings.Builder
	fmt.Fprint(&sql, EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql:  `INSERT INTO tx_function_signatures (signature, bytes, name) VALUES `,
		dbtypes.DBEngineSqlite: `INSERT OR IGNORE INTO tx_function_signatures (signature, bytes, name) VALUES `,
	}))
	args := make([]any, 0, len(txFuncSigs)*3)
	for i, sig := range txFuncSigs {
		if i > 0 {
			fmt.Fprintf(&sql, ", ")
		}
		fmt.Fprintf(&sql, "($%v, $%v, $%v)", len(args)+1, len(args)+2, len(args)+3)
		args = append(args, sig.Signature, sig.Bytes, sig.Name)
	}
	fmt.Fprint(&sql, EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql:  ` ON CONFLICT (bytes) DO NOTHING`,
		dbtypes.DBEngineSqlite: "",
	}))

	_, err := tx.ExecContext(ctx, sql.String(), args...)
	return err
}

func GetUnknownFunctionSignatures(ctx context.Context, sigBytes []types.TxSignatureBytes) []*dbtypes.TxUnknownFunctionSignature {
	unknownFnSigs := []*dbtypes.TxUnknownFunctionSignature{}
	if len(sigBytes) == 0 {
		return unknownFnSigs
	}
	var sql strings.Builder
	fmt.Fprintf(&sql, `
	SELECT
		bytes, lastcheck
	FROM tx_unknown_signatures
	WHERE bytes in (`)
	args := make([]any, len(sigBytes))
	for i := range sigBytes {
		if i > 0 {
			fmt.Fprintf(&sql, ", ")
		}
		fmt.Fprintf(&sql, "$%v", i+1)
		args[i] = sigBytes[i][:]
	}
	fmt.Fprintf(&sql, ")")
	err := ReaderDb.SelectContext(ctx, &unknownFnSigs, sql.String(), args...)
	if err != nil {
		logger.Errorf("Error while fetching unknown function signatures: %v", err)
		return nil
	}
	return unknownFnSigs
}

func InsertUnknownFunctionSignatures(ctx context.Context, tx *sqlx.Tx, txUnknownSigs []*dbtypes.TxUnknownFunctionSignature) error {
	if len(txUnknownSigs) == 0 {
		return nil
	}

	var sql strings.Builder
	fmt.Fprint(&sql, EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql:  `INSERT INTO tx_unknown_signatures (bytes, lastcheck) VALUES `,
		dbtypes.DBEngineSqlite: `INSERT OR REPLACE INTO tx_unknown_signatures (bytes, lastcheck) VALUES `,
	}))
	argIdx := 0
	args := make([]any, len(txUnknownSigs)*2)
	for i := range txUnknownSigs {
		if i > 0 {
			fmt.Fprintf(&sql, ", ")
		}
		fmt.Fprintf(&sql, "($%v, $%v)", argIdx+1, argIdx+2)
		args[argIdx] = txUnknownSigs[i].Bytes
		args[argIdx+1] = txUnknownSigs[i].LastCheck
		argIdx += 2
	}
	fmt.Fprint(&sql, EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql:  ` ON CONFLICT (bytes) DO UPDATE SET lastcheck = excluded.lastcheck`,
		dbtypes.DBEngineSqlite: "",
	}))
	_, err := tx.ExecContext(ctx, sql.String(), args...)
	if err != nil {
		return err
	}
	return nil
}

func DeleteUnknownFunctionSignatures(ctx context.Context, tx *sqlx.Tx, sigBytes []types.TxSignatureBytes) error {
	if len(sigBytes) == 0 {
		return nil
	}
	var sql strings.Builder
	fmt.Fprintf(&sql, `
	DELETE FROM tx_unknown_signatures
	WHERE bytes in (`)
	args := make([]any, len(sigBytes))
	for i := range sigBytes {
		if i > 0 {
			fmt.Fprintf(&sql, ", ")
		}
		fmt.Fprintf(&sql, "$%v", i+1)
		args[i] = sigBytes[i][:]
	}
	fmt.Fprintf(&sql, ")")
	_, err := tx.ExecContext(ctx, sql.String(), args...)
	return err
}
