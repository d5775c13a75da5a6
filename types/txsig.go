package types

// TxSignatureBytes is a 4 byte function selector.
type TxSignatureBytes [4]byte

// TxSignatureLookupStatus is the outcome of a selector lookup.
type TxSignatureLookupStatus uint8

const (
	TxSigStatusPending TxSignatureLookupStatus = iota
	TxSigStatusFound
	TxSigStatusUnknown
)

func (s TxSignatureLookupStatus) String() string {
	switch s {
	case TxSigStatusFound:
		return "found"
	case TxSigStatusUnknown:
		return "unknown"
	}
	return "pending"
}
