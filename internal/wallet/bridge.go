package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const bridgeTimeout = 60 * time.Second

// BridgeClient talks to an external wallet daemon over HTTP. The daemon
// holds the account's keys and signs every submitted call; this client never
// sees key material. Authorization is the session's bearer credential taken
// from the request context.
type BridgeClient struct {
	baseURL    string
	accountID  string
	httpClient *http.Client
}

// NewBridgeClient returns a bridge client bound to one account identity.
func NewBridgeClient(baseURL, accountID string) *BridgeClient {
	return &BridgeClient{
		baseURL:    baseURL,
		accountID:  accountID,
		httpClient: &http.Client{Timeout: bridgeTimeout},
	}
}

var _ Signer = (*BridgeClient)(nil)
var _ BalanceReader = (*BridgeClient)(nil)

func (c *BridgeClient) CurrentIdentity() string { return c.accountID }

type signedCallRequest struct {
	AccountID    string          `json:"account_id"`
	Method       string          `json:"method"`
	Args         json.RawMessage `json:"args"`
	DepositYocto string          `json:"deposit_yocto,omitempty"`
}

type signedCallResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transaction_hash"`
	Reason          string `json:"reason"`
}

// SubmitSignedCall asks the bridge to sign and submit a contract call and
// waits for it to settle.
func (c *BridgeClient) SubmitSignedCall(ctx context.Context, method string, args any, depositYocto string) (*Outcome, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal call args: %w", err)
	}
	body, err := json.Marshal(signedCallRequest{
		AccountID:    c.accountID,
		Method:       method,
		Args:         rawArgs,
		DepositYocto: depositYocto,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/calls", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := CredentialFromCtx(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet bridge call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallet bridge returned status %d", resp.StatusCode)
	}

	var out signedCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode wallet bridge response: %w", err)
	}
	return &Outcome{Success: out.Success, Reference: out.TransactionHash, Reason: out.Reason}, nil
}

type balanceResponse struct {
	TotalYocto string `json:"total_yocto"`
}

// AccountBalance returns the account's total balance in yoctoNEAR.
func (c *BridgeClient) AccountBalance(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/accounts/"+c.accountID+"/balance", nil)
	if err != nil {
		return "", fmt.Errorf("create balance request: %w", err)
	}
	if tok := CredentialFromCtx(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wallet bridge balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wallet bridge returned status %d", resp.StatusCode)
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode balance response: %w", err)
	}
	return out.TotalYocto, nil
}
