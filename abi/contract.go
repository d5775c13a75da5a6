package abi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector returns the first 4 bytes of the keccak256 hash of the canonical signature.
func (f *Function) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(f.Signature()))[:4])
	return sel
}

// Topic returns the keccak256 hash of the canonical event signature.
func (e *Event) Topic() common.Hash {
	return crypto.Keccak256Hash([]byte(e.Signature()))
}

// Contract is a parsed abi. It is read-only once constructed.
type Contract struct {
	Functions   map[string][]*Function
	Events      map[string][]*Event
	HasFallback bool

	functionList []*Function
	eventList    []*Event
	bySelector   map[[4]byte]*Function
	byTopic      map[common.Hash]*Event
}

// NewContract builds a contract and its selector and topic indexes.
// On hash collisions the first declaration wins.
func NewContract(functions []*Function, events []*Event, hasFallback bool) *Contract {
	c := &Contract{
		Functions:    make(map[string][]*Function, len(functions)),
		Events:       make(map[string][]*Event, len(events)),
		HasFallback:  hasFallback,
		functionList: functions,
		eventList:    events,
		bySelector:   make(map[[4]byte]*Function, len(functions)),
		byTopic:      make(map[common.Hash]*Event, len(events)),
	}

	for _, fn := range functions {
		c.Functions[fn.Name] = append(c.Functions[fn.Name], fn)
		sel := fn.Selector()
		if _, exists := c.bySelector[sel]; !exists {
			c.bySelector[sel] = fn
		}
	}

	for _, ev := range events {
		c.Events[ev.Name] = append(c.Events[ev.Name], ev)
		if ev.Anonymous {
			continue
		}
		topic := ev.Topic()
		if _, exists := c.byTopic[topic]; !exists {
			c.byTopic[topic] = ev
		}
	}

	return c
}

// FunctionList returns the functions in declaration order.
func (c *Contract) FunctionList() []*Function {
	return c.functionList
}

// EventList returns the events in declaration order.
func (c *Contract) EventList() []*Event {
	return c.eventList
}

// FunctionBySelector returns the function for a 4 byte selector or nil.
func (c *Contract) FunctionBySelector(selector [4]byte) *Function {
	return c.bySelector[selector]
}

// EventByTopic returns the non-anonymous event for a topic hash or nil.
func (c *Contract) EventByTopic(topic common.Hash) *Event {
	return c.byTopic[topic]
}

// SelectorEntry describes the hash of a single abi entry.
type SelectorEntry struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Hash      string `json:"hash"`
}

// Selectors lists all functions and events with their signature hashes.
func (c *Contract) Selectors() []*SelectorEntry {
	entries := make([]*SelectorEntry, 0, len(c.functionList)+len(c.eventList))
	for _, fn := range c.functionList {
		sel := fn.Selector()
		entries = append(entries, &SelectorEntry{
			Type:      "function",
			Name:      fn.Name,
			Signature: fn.Signature(),
			Hash:      fmt.Sprintf("0x%x", sel[:]),
		})
	}
	for _, ev := range c.eventList {
		entries = append(entries, &SelectorEntry{
			Type:      "event",
			Name:      ev.Name,
			Signature: ev.Signature(),
			Hash:      ev.Topic().Hex(),
		})
	}
	return entries
}
