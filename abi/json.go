package abi

import (
	"encoding/json"
	"fmt"
)

type jsonArgument struct {
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	InternalType string         `json:"internalType,omitempty"`
	Components   []jsonArgument `json:"components,omitempty"`
	Indexed      bool           `json:"indexed,omitempty"`
}

type jsonEntry struct {
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Inputs          []jsonArgument `json:"inputs"`
	Outputs         []jsonArgument `json:"outputs"`
	StateMutability string         `json:"stateMutability"`
	Constant        bool           `json:"constant"`
	Payable         bool           `json:"payable"`
	Anonymous       bool           `json:"anonymous"`
}

// ParseJSON parses a solidity abi json array.
func ParseJSON(data []byte) (*Contract, error) {
	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbi, err)
	}

	functions := make([]*Function, 0, len(entries))
	events := make([]*Event, 0)
	hasFallback := false

	for idx, entry := range entries {
		switch entry.Type {
		case "function", "":
			fn, err := parseFunction(entry)
			if err != nil {
				return nil, fmt.Errorf("abi entry %d (%v): %w", idx, entry.Name, err)
			}
			functions = append(functions, fn)
		case "event":
			ev, err := parseEvent(entry)
			if err != nil {
				return nil, fmt.Errorf("abi entry %d (%v): %w", idx, entry.Name, err)
			}
			events = append(events, ev)
		case "fallback", "receive":
			hasFallback = true
		case "constructor", "error":
			// not reachable through calldata selectors
		default:
			return nil, fmt.Errorf("%w: unknown abi entry type %q", ErrInvalidAbi, entry.Type)
		}
	}

	return NewContract(functions, events, hasFallback), nil
}

// UnmarshalJSON allows contracts to be embedded in json requests.
func (c *Contract) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func parseFunction(entry jsonEntry) (*Function, error) {
	inputs, err := parseArguments(entry.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := parseArguments(entry.Outputs)
	if err != nil {
		return nil, err
	}

	return &Function{
		Name:            entry.Name,
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: parseStateMutability(entry),
	}, nil
}

func parseEvent(entry jsonEntry) (*Event, error) {
	event := &Event{
		Name:      entry.Name,
		Anonymous: entry.Anonymous,
		Inputs:    make([]EventParam, len(entry.Inputs)),
	}
	for i, arg := range entry.Inputs {
		param, err := parseArgument(arg)
		if err != nil {
			return nil, err
		}
		event.Inputs[i] = EventParam{
			Param:   param,
			Indexed: arg.Indexed,
		}
	}
	return event, nil
}

func parseArguments(args []jsonArgument) ([]Param, error) {
	params := make([]Param, len(args))
	for i, arg := range args {
		param, err := parseArgument(arg)
		if err != nil {
			return nil, err
		}
		params[i] = param
	}
	return params, nil
}

func parseArgument(arg jsonArgument) (Param, error) {
	components, err := parseArguments(arg.Components)
	if err != nil {
		return Param{}, err
	}
	typ, err := ParseType(arg.Type, components)
	if err != nil {
		return Param{}, err
	}
	return Param{
		Name:         arg.Name,
		Type:         typ,
		InternalType: arg.InternalType,
	}, nil
}

func parseStateMutability(entry jsonEntry) StateMutability {
	switch entry.StateMutability {
	case "payable":
		return Payable
	case "view":
		return View
	case "pure":
		return Pure
	case "nonpayable":
		return NonPayable
	}

	// legacy abi without stateMutability
	if entry.Payable {
		return Payable
	}
	if entry.Constant {
		return View
	}
	return NonPayable
}
