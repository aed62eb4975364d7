// Package wallet is the identity boundary. The wallet collaborator owns the
// keys; this package only asks it who the current actor is and hands it
// calls to sign and submit.
package wallet

import "context"

// Outcome is the settled result of a signed ledger call. Exactly one of
// Reference (success) or Reason (rejection) is meaningful.
type Outcome struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Signer supplies the current actor's identity and submits signed contract
// calls on their behalf. An error means the call never settled; a returned
// Outcome with Success=false means the ledger rejected it.
type Signer interface {
	CurrentIdentity() string
	SubmitSignedCall(ctx context.Context, method string, args any, depositYocto string) (*Outcome, error)
}

// BalanceReader is implemented by signers that can report the account's
// spendable balance, in yoctoNEAR.
type BalanceReader interface {
	AccountBalance(ctx context.Context) (string, error)
}

type credentialKey struct{}

// WithCredential returns a context carrying the caller's bearer credential,
// forwarded to the wallet bridge on signed calls.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFromCtx returns the bearer credential, or "".
func CredentialFromCtx(ctx context.Context) string {
	tok, _ := ctx.Value(credentialKey{}).(string)
	return tok
}
