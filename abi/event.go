package abi

import (
	"fmt"
)

// DecodeLog matches the log by its first topic and decodes it.
func (c *Contract) DecodeLog(log *TxLog) (*DecodedEvent, error) {
	if log.Topics[0] == nil {
		return nil, ErrAnonymousEvent
	}

	event := c.EventByTopic(*log.Topics[0])
	if event == nil {
		return nil, fmt.Errorf("%w: topic %v", ErrEventNotFound, log.Topics[0].Hex())
	}

	return event.DecodeLog(log)
}

// DecodeAnonymousLog decodes a log against the anonymous events with the given
// name. The first candidate that decodes without error is returned.
func (c *Contract) DecodeAnonymousLog(log *TxLog, name string) (*DecodedEvent, error) {
	var lastErr error
	for _, event := range c.Events[name] {
		if !event.Anonymous {
			continue
		}
		decoded, err := event.DecodeLog(log)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no anonymous event %v", ErrEventNotFound, name)
}

// DecodeLog decodes the log as an occurrence of this event. Indexed values
// come from the topics, the remaining values from the log data. Reference
// typed indexed values are only available as their keccak256 hash and are
// returned as raw 32 byte values.
func (e *Event) DecodeLog(log *TxLog) (*DecodedEvent, error) {
	topicCount := log.TopicCount()
	firstTopic := 1
	if e.Anonymous {
		firstTopic = 0
	} else if topicCount == 0 {
		return nil, fmt.Errorf("%w: missing signature topic for %v", ErrDecode, e.Name)
	}

	nonIndexed := make([]ParamType, 0, len(e.Inputs))
	indexedCount := 0
	for _, input := range e.Inputs {
		if input.Indexed {
			indexedCount++
		} else {
			nonIndexed = append(nonIndexed, input.Type)
		}
	}
	if firstTopic+indexedCount > topicCount {
		return nil, fmt.Errorf("%w: event %v has %d indexed inputs but log carries %d topics", ErrDecode, e.Name, indexedCount, topicCount)
	}

	dataTokens, err := DecodeParams(nonIndexed, log.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %v data: %w", e.Signature(), err)
	}

	decoded := &DecodedEvent{
		Name:      e.Name,
		Anonymous: e.Anonymous,
		Index:     log.Index,
		Inputs:    make([]*DecodedEventInput, len(e.Inputs)),
	}

	topicIdx := firstTopic
	dataIdx := 0
	for i, input := range e.Inputs {
		var token Token
		if input.Indexed {
			token = decodeWord(input.Type, log.Topics[topicIdx][:])
			topicIdx++
		} else {
			token = dataTokens[dataIdx]
			dataIdx++
		}

		decoded.Inputs[i] = &DecodedEventInput{
			Name:    input.Name,
			Type:    FormatParamType(input.Param),
			Indexed: input.Indexed,
			Value:   FormatToken(token),
		}
	}

	return decoded, nil
}
