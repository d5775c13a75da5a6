package dbtypes

type ContractAbi struct {
	Network   string `db:"network"`
	Address   []byte `db:"address"`
	Abi       string `db:"abi"`
	Source    string `db:"source"`
	FetchedAt int64  `db:"fetched_at"`
}

type TxFunctionSignature struct {
	Signature string `db:"signature"`
	Bytes     []byte `db:"bytes"`
	Name      string `db:"name"`
}

type TxUnknownFunctionSignature struct {
	Bytes     []byte `db:"bytes"`
	LastCheck int64  `db:"lastcheck"`
}
