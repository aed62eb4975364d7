package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neartasks/platform/internal/wallet"
)

const viewTimeout = 30 * time.Second

// RPCClient implements Client against a NEAR-style JSON-RPC node. View
// methods are executed as call_function queries; change methods are handed
// to the wallet signer, which owns transaction construction and signing.
type RPCClient struct {
	rpcURL     string
	contractID string
	signer     wallet.Signer
	httpClient *http.Client
}

// NewRPCClient returns a gateway bound to one RPC node, one contract
// account, and one session signer.
func NewRPCClient(rpcURL, contractID string, signer wallet.Signer) *RPCClient {
	return &RPCClient{
		rpcURL:     rpcURL,
		contractID: contractID,
		signer:     signer,
		httpClient: &http.Client{Timeout: viewTimeout},
	}
}

var _ Client = (*RPCClient)(nil)

// --- reads ---

func (c *RPCClient) FetchAllTasks(ctx context.Context) ([]TaskRecord, error) {
	raw, err := c.viewCall(ctx, "get_tasks", map[string]any{})
	if err != nil {
		return nil, err
	}
	return decodeRecordList(raw)
}

func (c *RPCClient) FetchTask(ctx context.Context, id uint64) (*TaskRecord, error) {
	raw, err := c.viewCall(ctx, "get_task", map[string]any{"task_id": id})
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *RPCClient) FetchPlatformFeePercentage(ctx context.Context) (uint8, error) {
	raw, err := c.viewCall(ctx, "get_platform_fee_percentage", map[string]any{})
	if err != nil {
		return 0, err
	}
	var pct uint8
	if err := json.Unmarshal(raw, &pct); err != nil {
		return 0, &SchemaError{Detail: "platform fee is not an integer percentage"}
	}
	return pct, nil
}

func (c *RPCClient) FetchRating(ctx context.Context, accountID string) (uint8, error) {
	raw, err := c.viewCall(ctx, "get_rating", map[string]any{"account_id": accountID})
	if err != nil {
		return 0, err
	}
	var rating uint8
	if err := json.Unmarshal(raw, &rating); err != nil || rating > 5 {
		return 0, &SchemaError{Detail: "rating is not an integer in 0..5"}
	}
	return rating, nil
}

// --- writes ---

func (c *RPCClient) CreateTask(ctx context.Context, fields CreateTaskFields, escrowYocto string) (*wallet.Outcome, error) {
	return c.change(ctx, "add_task", fields, escrowYocto)
}

func (c *RPCClient) ApplyForTask(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	return c.change(ctx, "apply_for_task", map[string]any{"task_id": id}, "")
}

func (c *RPCClient) AssignTask(ctx context.Context, id uint64, candidateAccount string) (*wallet.Outcome, error) {
	return c.change(ctx, "assign_task", map[string]any{"task_id": id, "candidate_account": candidateAccount}, "")
}

func (c *RPCClient) UnassignTask(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	return c.change(ctx, "unassign_task", map[string]any{"task_id": id}, "")
}

func (c *RPCClient) SubmitResult(ctx context.Context, id uint64, result string) (*wallet.Outcome, error) {
	return c.change(ctx, "submit_result", map[string]any{"task_id": id, "result": result}, "")
}

func (c *RPCClient) CompleteTask(ctx context.Context, id uint64, rating uint8) (*wallet.Outcome, error) {
	return c.change(ctx, "complete_task", map[string]any{"task_id": id, "rating": rating}, "")
}

func (c *RPCClient) DeleteTask(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	return c.change(ctx, "delete_task", map[string]any{"task_id": id}, "")
}

// change submits one signed call and translates the settled outcome: a
// rejection becomes *LedgerError with the reason passed through verbatim.
func (c *RPCClient) change(ctx context.Context, method string, args any, depositYocto string) (*wallet.Outcome, error) {
	out, err := c.signer.SubmitSignedCall(ctx, method, args, depositYocto)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, method, err)
	}
	if !out.Success {
		return nil, &LedgerError{Reason: out.Reason}
	}
	return out, nil
}

// --- JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type callFunctionParams struct {
	RequestType string `json:"request_type"`
	Finality    string `json:"finality"`
	AccountID   string `json:"account_id"`
	MethodName  string `json:"method_name"`
	ArgsBase64  string `json:"args_base64"`
}

type rpcError struct {
	Name    string `json:"name"`
	Cause   any    `json:"cause"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// callFunctionResult is the query result envelope: the return value arrives
// as a byte array holding the method's JSON.
type callFunctionResult struct {
	Result []int  `json:"result"`
	Error  string `json:"error"`
}

// viewCall executes a read-only contract function and returns the raw JSON
// it produced.
func (c *RPCClient) viewCall(ctx context.Context, method string, args any) (json.RawMessage, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal view args: %w", err)
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "query",
		Params: callFunctionParams{
			RequestType: "call_function",
			Finality:    "final",
			AccountID:   c.contractID,
			MethodName:  method,
			ArgsBase64:  base64.StdEncoding.EncodeToString(argsJSON),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: rpc status %d", ErrUnavailable, method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: decode rpc response: %v", ErrUnavailable, method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("%w: %s: rpc error: %s", ErrUnavailable, method, envelope.Error.Message)
	}

	var result callFunctionResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: decode query result: %v", ErrUnavailable, method, err)
	}
	if result.Error != "" {
		// The contract itself refused the view call.
		return nil, &LedgerError{Reason: result.Error}
	}

	raw := make([]byte, len(result.Result))
	for i, b := range result.Result {
		if b < 0 || b > 255 {
			return nil, &SchemaError{Detail: "query result is not a byte array"}
		}
		raw[i] = byte(b)
	}
	return raw, nil
}
