package types

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ethpandaops/txdecoder/abi"
)

// Transaction is the view of a transaction the decoder needs: its calldata
// and the logs it emitted.
type Transaction struct {
	Hash    common.Hash
	Network string
	Status  string
	Input   []byte
	To      *common.Address
	Logs    []*abi.TxLog
}
