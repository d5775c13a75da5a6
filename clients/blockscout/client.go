package blockscout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	nethttp "net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrContractNotVerified = errors.New("contract abi not available")
	ErrUnknownNetwork      = errors.New("unknown blockscout network")
)

// Client talks to the etherscan compatible rpc api of a blockscout instance.
// Networks are addressed by their path below the base url, e.g. "eth/mainnet".
type Client struct {
	baseUrl    string
	headers    map[string]string
	httpClient *nethttp.Client
	logger     logrus.FieldLogger
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type txInfoResult struct {
	Hash    common.Hash   `json:"hash"`
	Input   hexutil.Bytes `json:"input"`
	Success bool          `json:"success"`
	To      string        `json:"to"`
	Logs    []*txInfoLog  `json:"logs"`
}

type txInfoLog struct {
	Address common.Address `json:"address"`
	Data    hexutil.Bytes  `json:"data"`
	Topics  []*common.Hash `json:"topics"`
	Index   string         `json:"index"`
}

func NewClient(baseUrl string, timeout time.Duration, headers map[string]string, logger logrus.FieldLogger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		headers:    headers,
		httpClient: &nethttp.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) apiUrl(network string, query url.Values) string {
	return fmt.Sprintf("%s/%s/api?%s", c.baseUrl, strings.Trim(network, "/"), query.Encode())
}

func (c *Client) call(ctx context.Context, network string, query url.Values) (*apiResponse, error) {
	reqUrl := c.apiUrl(network, query)
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build blockscout request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", utils.GetUserAgent())
	for hKey, hVal := range c.headers {
		req.Header.Set(hKey, hVal)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "blockscout request for %v failed", network)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read blockscout response")
	}

	if resp.StatusCode == nethttp.StatusNotFound {
		return nil, errors.Wrapf(ErrUnknownNetwork, "%v", network)
	}
	if resp.StatusCode != nethttp.StatusOK {
		return nil, errors.Errorf("url: %v, code: %v, error-response: %s", reqUrl, resp.StatusCode, body)
	}

	response := &apiResponse{}
	if err := json.Unmarshal(body, response); err != nil {
		// unknown network paths are answered with the html frontend
		return nil, errors.Wrapf(ErrUnknownNetwork, "%v: unexpected response: %v", network, err)
	}
	return response, nil
}

// GetTransaction returns the input and logs of a transaction.
func (c *Client) GetTransaction(ctx context.Context, network string, hash common.Hash) (*types.Transaction, error) {
	response, err := c.call(ctx, network, url.Values{
		"module": {"transaction"},
		"action": {"gettxinfo"},
		"txhash": {hash.Hex()},
	})
	if err != nil {
		return nil, err
	}

	if response.Status != "1" {
		if isNotFoundMessage(response.Message) {
			return nil, errors.Wrapf(ErrTransactionNotFound, "%v", hash.Hex())
		}
		return nil, errors.Errorf("blockscout gettxinfo failed: %v", response.Message)
	}

	result := txInfoResult{}
	if err := json.Unmarshal(response.Result, &result); err != nil {
		return nil, errors.Wrap(err, "could not parse gettxinfo result")
	}

	tx := &types.Transaction{
		Hash:    hash,
		Network: network,
		Input:   result.Input,
		Logs:    make([]*abi.TxLog, 0, len(result.Logs)),
	}
	if result.Success {
		tx.Status = "success"
	} else {
		tx.Status = "failed"
	}
	if common.IsHexAddress(result.To) {
		to := common.HexToAddress(result.To)
		tx.To = &to
	}

	for _, log := range result.Logs {
		txLog := &abi.TxLog{
			Address: log.Address,
			Data:    log.Data,
			Index:   log.Index,
		}
		for i := 0; i < len(log.Topics) && i < len(txLog.Topics); i++ {
			txLog.Topics[i] = log.Topics[i]
		}
		tx.Logs = append(tx.Logs, txLog)
	}

	c.logger.Debugf("fetched tx %v from blockscout %v (%v logs)", hash.Hex(), network, len(tx.Logs))
	return tx, nil
}

// GetContractAbi returns the raw abi json of a verified contract.
func (c *Client) GetContractAbi(ctx context.Context, network string, address common.Address) ([]byte, error) {
	response, err := c.call(ctx, network, url.Values{
		"module":  {"contract"},
		"action":  {"getabi"},
		"address": {address.Hex()},
	})
	if err != nil {
		return nil, err
	}

	if response.Status != "1" {
		return nil, errors.Wrapf(ErrContractNotVerified, "%v: %v", address.Hex(), response.Message)
	}

	abiJson := ""
	if err := json.Unmarshal(response.Result, &abiJson); err != nil {
		return nil, errors.Wrap(err, "could not parse getabi result")
	}
	return []byte(abiJson), nil
}

func isNotFoundMessage(message string) bool {
	message = strings.ToLower(message)
	return strings.Contains(message, "not found") || strings.Contains(message, "invalid")
}
