// Package relayer submits fee payer unsigned transactions to the paymaster
// service, which signs them as fee payer and sends them to the cluster.
package relayer

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/lazor-kit/wallet-client/pkg/metrics"
	"github.com/lazor-kit/wallet-client/pkg/solana"
)

const (
	metricsStructName = "relayer.client"

	requestTimeout = 30 * time.Second
)

var (
	ErrRelayerSubmissionFailed = errors.New("relayer submission failed")
)

// Fields a relayer may report the transaction id under, in priority order.
var transactionIDFields = []string{"result", "signature", "id", "txHash"}

type Result struct {
	TransactionID string
}

// Submitter submits a serialized transaction exactly once. Retrying a failed
// submission is the caller's decision.
type Submitter interface {
	Submit(ctx context.Context, encodedTxn string) (*Result, error)
}

type Client struct {
	log    *logrus.Entry
	conf   *conf
	client jsonrpc.RPCClient
}

func NewClient(configProvider ConfigProvider) *Client {
	conf := configProvider()

	return &Client{
		log:  logrus.StandardLogger().WithField("type", "relayer/client"),
		conf: conf,
		client: jsonrpc.NewClientWithOpts(conf.url.Get(context.Background()), &jsonrpc.RPCClientOpts{
			HTTPClient: &http.Client{Timeout: requestTimeout},
		}),
	}
}

// SubmitTransaction serializes txn without verifying signatures and submits it.
func (c *Client) SubmitTransaction(ctx context.Context, txn solana.Transaction) (*Result, error) {
	return c.Submit(ctx, txn.ToBase64())
}

// Submit implements Submitter.Submit
func (c *Client) Submit(ctx context.Context, encodedTxn string) (result *Result, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Submit")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	log := c.log.WithField("method", "Submit")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.client.Call(c.conf.method.Get(ctx), encodedTxn)
	if err != nil {
		log.WithError(err).Warn("failure calling relayer")
		return nil, errors.Wrap(ErrRelayerSubmissionFailed, err.Error())
	}

	if resp.Error != nil {
		log.WithError(resp.Error).Info("relayer rejected transaction")
		return nil, errors.Wrapf(ErrRelayerSubmissionFailed, "relayer error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	txnID, err := transactionIDFromResult(resp.Result)
	if err != nil {
		log.WithError(err).Warn("unexpected relayer response")
		return nil, errors.Wrap(ErrRelayerSubmissionFailed, err.Error())
	}

	log.WithField("txn_id", txnID).Debug("transaction submitted")
	metrics.RecordEvent(ctx, "RelayerSubmission", map[string]interface{}{
		"txn_id": txnID,
	})

	return &Result{TransactionID: txnID}, nil
}

func transactionIDFromResult(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		if len(v) > 0 {
			return v, nil
		}
	case map[string]interface{}:
		if reported, ok := v["error"]; ok && reported != nil {
			return "", errors.Errorf("relayer reported error: %v", reported)
		}

		for _, field := range transactionIDFields {
			if id, ok := v[field].(string); ok && len(id) > 0 {
				return id, nil
			}
		}
	}

	return "", errors.New("no transaction id in relayer response")
}
