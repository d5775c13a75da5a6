package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/txdecoder/abi"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode transaction calldata against an abi",
	RunE:  runDecode,
}

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Decode a single event log against an abi",
	RunE:  runEvent,
}

var selectorsCmd = &cobra.Command{
	Use:   "selectors",
	Short: "List function selectors and event topics of an abi",
	RunE:  runSelectors,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(selectorsCmd)

	decodeCmd.Flags().StringP("abi", "a", "", "Path to the abi json file, - for stdin (required)")
	decodeCmd.Flags().StringP("data", "d", "", "Hex encoded calldata (required)")
	decodeCmd.MarkFlagRequired("abi")
	decodeCmd.MarkFlagRequired("data")

	eventCmd.Flags().StringP("abi", "a", "", "Path to the abi json file, - for stdin (required)")
	eventCmd.Flags().StringSliceP("topics", "t", []string{}, "Hex encoded log topics, comma separated")
	eventCmd.Flags().StringP("data", "d", "0x", "Hex encoded log data")
	eventCmd.Flags().String("address", "", "Emitting contract address")
	eventCmd.Flags().String("anonymous", "", "Decode as the named anonymous event")
	eventCmd.MarkFlagRequired("abi")

	selectorsCmd.Flags().StringP("abi", "a", "", "Path to the abi json file, - for stdin (required)")
	selectorsCmd.MarkFlagRequired("abi")
}

func loadContract(cmd *cobra.Command) (*abi.Contract, error) {
	abiPath, _ := cmd.Flags().GetString("abi")

	var abiJson []byte
	var err error
	if abiPath == "-" {
		abiJson, err = io.ReadAll(cmd.InOrStdin())
	} else {
		abiJson, err = os.ReadFile(abiPath)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading abi: %v", err)
	}

	return abi.ParseJSON(abiJson)
}

func printJson(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func runDecode(cmd *cobra.Command, args []string) error {
	contract, err := loadContract(cmd)
	if err != nil {
		return err
	}

	dataHex, _ := cmd.Flags().GetString("data")
	calldata, err := hexutil.Decode(normalizeHex(dataHex))
	if err != nil {
		return fmt.Errorf("invalid calldata: %v", err)
	}

	call, err := contract.DecodeCall(calldata)
	if err != nil {
		return err
	}
	return printJson(cmd, call)
}

func runEvent(cmd *cobra.Command, args []string) error {
	contract, err := loadContract(cmd)
	if err != nil {
		return err
	}

	topicsHex, _ := cmd.Flags().GetStringSlice("topics")
	dataHex, _ := cmd.Flags().GetString("data")
	addressHex, _ := cmd.Flags().GetString("address")
	anonymous, _ := cmd.Flags().GetString("anonymous")

	if len(topicsHex) > 4 {
		return fmt.Errorf("a log carries at most 4 topics, got %v", len(topicsHex))
	}
	topics := make([]common.Hash, len(topicsHex))
	for i, topicHex := range topicsHex {
		topic, err := hexutil.Decode(normalizeHex(topicHex))
		if err != nil || len(topic) != common.HashLength {
			return fmt.Errorf("invalid topic %v", topicHex)
		}
		topics[i] = common.BytesToHash(topic)
	}

	data, err := hexutil.Decode(normalizeHex(dataHex))
	if err != nil {
		return fmt.Errorf("invalid log data: %v", err)
	}

	var address common.Address
	if addressHex != "" {
		if !common.IsHexAddress(addressHex) {
			return fmt.Errorf("invalid address %v", addressHex)
		}
		address = common.HexToAddress(addressHex)
	}

	log := abi.NewTxLog(address, data, topics, "0")

	var event *abi.DecodedEvent
	if anonymous != "" {
		event, err = contract.DecodeAnonymousLog(log, anonymous)
	} else {
		event, err = contract.DecodeLog(log)
	}
	if err != nil {
		return err
	}
	return printJson(cmd, event)
}

func runSelectors(cmd *cobra.Command, args []string) error {
	contract, err := loadContract(cmd)
	if err != nil {
		return err
	}
	return printJson(cmd, contract.Selectors())
}

// normalizeHex accepts hex strings with or without 0x prefix.
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return s
}
