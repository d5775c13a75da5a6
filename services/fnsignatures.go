package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	nethttp "net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/abi"
	"github.com/ethpandaops/txdecoder/db"
	"github.com/ethpandaops/txdecoder/dbtypes"
	"github.com/ethpandaops/txdecoder/metrics"
	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

const fourBytesLookupUrl = "https://www.4byte.directory/api/v1/signatures/?format=json&hex_signature=0x%x"

// SignatureService resolves function selectors to text signatures. Known
// signatures are taken from every abi passing through the decoder, unknown
// ones are looked up on 4byte.directory.
type SignatureService struct {
	config     *types.Config
	httpClient *nethttp.Client
	lookupUrl  string
	logger     logrus.FieldLogger

	recordedMutex sync.Mutex
	recorded      map[types.TxSignatureBytes]bool
}

type TxSignaturesLookup struct {
	Bytes     types.TxSignatureBytes
	Signature string
	Name      string
	Status    types.TxSignatureLookupStatus
}

func NewSignatureService(config *types.Config, logger logrus.FieldLogger) *SignatureService {
	return &SignatureService{
		config:     config,
		httpClient: &nethttp.Client{Timeout: config.TxSignature.LookupTimeout},
		lookupUrl:  fourBytesLookupUrl,
		logger:     logger,
		recorded:   map[types.TxSignatureBytes]bool{},
	}
}

// RecordContract stores the signatures of all contract functions that have
// not been recorded before.
func (tss *SignatureService) RecordContract(ctx context.Context, contract *abi.Contract) {
	if !db.IsInitialized() {
		return
	}

	tss.recordedMutex.Lock()
	fnSigs := []*dbtypes.TxFunctionSignature{}
	sigBytes := []types.TxSignatureBytes{}
	for _, fn := range contract.FunctionList() {
		selector := types.TxSignatureBytes(fn.Selector())
		if tss.recorded[selector] {
			continue
		}
		tss.recorded[selector] = true
		sigBytes = append(sigBytes, selector)
		fnSigs = append(fnSigs, &dbtypes.TxFunctionSignature{
			Signature: fn.Signature(),
			Bytes:     selector[:],
			Name:      fn.Name,
		})
	}
	tss.recordedMutex.Unlock()

	if len(fnSigs) == 0 {
		return
	}

	err := db.RunDBTransaction(func(tx *sqlx.Tx) error {
		if err := db.InsertTxFunctionSignatures(ctx, tx, fnSigs); err != nil {
			return err
		}
		return db.DeleteUnknownFunctionSignatures(ctx, tx, sigBytes)
	})
	if err != nil {
		tss.logger.Warnf("error saving function signatures: %v", err)
	}
}

// LookupSelector resolves a single selector. Failed lookups are remembered
// and only retried after the recheck timeout.
func (tss *SignatureService) LookupSelector(ctx context.Context, selector [4]byte) (*TxSignaturesLookup, error) {
	lookup := &TxSignaturesLookup{
		Bytes: types.TxSignatureBytes(selector),
	}
	if tss.config.TxSignature.DisableLookup {
		return lookup, nil
	}

	if db.IsInitialized() {
		// check known signatures in DB
		if dbSigs := db.GetTxFunctionSignaturesByBytes(ctx, []types.TxSignatureBytes{lookup.Bytes}); len(dbSigs) > 0 {
			lookup.Status = types.TxSigStatusFound
			lookup.Signature = dbSigs[0].Signature
			lookup.Name = dbSigs[0].Name
			metrics.SignatureLookups.WithLabelValues("db", lookup.Status.String()).Inc()
			return lookup, nil
		}

		// check unknown signatures in DB (previous failed sig lookups)
		checkTimeout := time.Now().Add(-tss.config.TxSignature.RecheckTimeout).Unix()
		for _, unknownSigEntry := range db.GetUnknownFunctionSignatures(ctx, []types.TxSignatureBytes{lookup.Bytes}) {
			if unknownSigEntry.LastCheck >= checkTimeout {
				lookup.Status = types.TxSigStatusUnknown
				metrics.SignatureLookups.WithLabelValues("db", lookup.Status.String()).Inc()
				return lookup, nil
			}
		}
	}

	if tss.config.TxSignature.Disable4Bytes {
		return lookup, nil
	}

	err := tss.lookup4Bytes(ctx, lookup)
	if err != nil {
		metrics.SignatureLookups.WithLabelValues("4bytes", "error").Inc()
		return lookup, err
	}

	metrics.SignatureLookups.WithLabelValues("4bytes", lookup.Status.String()).Inc()
	tss.storeLookup(ctx, lookup)

	tss.logger.Debugf("lookup fn signature 0x%x (%v): %v", lookup.Bytes[:], lookup.Status, lookup.Signature)
	return lookup, nil
}

func (tss *SignatureService) storeLookup(ctx context.Context, lookup *TxSignaturesLookup) {
	if !db.IsInitialized() {
		return
	}

	err := db.RunDBTransaction(func(tx *sqlx.Tx) error {
		if lookup.Status == types.TxSigStatusFound {
			return db.InsertTxFunctionSignatures(ctx, tx, []*dbtypes.TxFunctionSignature{{
				Signature: lookup.Signature,
				Bytes:     lookup.Bytes[:],
				Name:      lookup.Name,
			}})
		}
		return db.InsertUnknownFunctionSignatures(ctx, tx, []*dbtypes.TxUnknownFunctionSignature{{
			Bytes:     lookup.Bytes[:],
			LastCheck: time.Now().Unix(),
		}})
	})
	if err != nil {
		tss.logger.Warnf("error saving signature lookup result: %v", err)
	}
}

type txSigLookup_4bytesResponse struct {
	Count   int `json:"count"`
	Results []struct {
		Id        int    `json:"id"`
		Signature string `json:"text_signature"`
	} `json:"results"`
}

func (tss *SignatureService) lookup4Bytes(ctx context.Context, lookup *TxSignaturesLookup) error {
	url := fmt.Sprintf(tss.lookupUrl, lookup.Bytes)

	req, err := nethttp.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", utils.GetUserAgent())

	resp, err := tss.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("url: %v, code: %v, error-response: %s", url, resp.StatusCode, data)
	}

	returnValue := txSigLookup_4bytesResponse{}
	dec := json.NewDecoder(resp.Body)
	err = dec.Decode(&returnValue)
	if err != nil {
		return fmt.Errorf("error parsing 4bytes json response: %v", err)
	}

	if returnValue.Count == 0 || len(returnValue.Results) == 0 {
		lookup.Status = types.TxSigStatusUnknown
	} else {
		lookup.Status = types.TxSigStatusFound
		lookup.Signature = returnValue.Results[0].Signature
		sigparts := strings.Split(lookup.Signature, "(")
		lookup.Name = sigparts[0]
	}
	return nil
}
