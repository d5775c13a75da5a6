package abi

import (
	"fmt"
)

// DecodeCall matches calldata against the contract functions and decodes
// the arguments. A nil result without error means the call went to the
// fallback function.
func (c *Contract) DecodeCall(calldata []byte) (*DecodedCall, error) {
	if len(calldata) < 4 {
		if c.HasFallback {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: got %d bytes", ErrInsufficientCalldata, len(calldata))
	}

	var selector [4]byte
	copy(selector[:], calldata[:4])

	fn := c.FunctionBySelector(selector)
	if fn == nil {
		if c.HasFallback {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: 0x%x", ErrSelectorNotFound, selector[:])
	}

	tokens, err := fn.DecodeInput(calldata[4:])
	if err != nil {
		return nil, fmt.Errorf("decoding %v: %w", fn.Signature(), err)
	}

	call := &DecodedCall{
		Name:   fn.Name,
		Inputs: make([]*DecodedInput, len(fn.Inputs)),
	}
	for i, input := range fn.Inputs {
		decoded := &DecodedInput{
			Name:  input.Name,
			Type:  FormatParamType(input),
			Value: FormatToken(tokens[i]),
		}
		if input.InternalType != "" {
			internalType := input.InternalType
			decoded.InternalType = &internalType
		}
		call.Inputs[i] = decoded
	}

	return call, nil
}
