package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neartasks/platform/internal/wallet"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, subject string, secret []byte, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	raw, err := tok.SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	var identity, credential string
	handler := SessionAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity = IdentityFromCtx(r.Context())
		credential = wallet.CredentialFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, identity, credential
}

func TestSessionAuthValidToken(t *testing.T) {
	raw := signToken(t, "alice.near", testSecret, time.Now().Add(time.Hour))
	rr, identity, credential := runAuth(t, "Bearer "+raw)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	if identity != "alice.near" {
		t.Errorf("identity: got %q", identity)
	}
	if credential != raw {
		t.Error("raw token should be kept as the wallet credential")
	}
}

func TestSessionAuthMissingHeader(t *testing.T) {
	rr, _, _ := runAuth(t, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestSessionAuthMalformedHeader(t *testing.T) {
	raw := signToken(t, "alice.near", testSecret, time.Now().Add(time.Hour))
	for _, h := range []string{raw, "Basic " + raw, "Bearer"} {
		rr, _, _ := runAuth(t, h)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status %d, want 401", h, rr.Code)
		}
	}
}

func TestSessionAuthWrongSecret(t *testing.T) {
	raw := signToken(t, "alice.near", []byte("other-secret"), time.Now().Add(time.Hour))
	rr, _, _ := runAuth(t, "Bearer "+raw)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestSessionAuthExpiredToken(t *testing.T) {
	raw := signToken(t, "alice.near", testSecret, time.Now().Add(-time.Minute))
	rr, _, _ := runAuth(t, "Bearer "+raw)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestSessionAuthMissingSubject(t *testing.T) {
	raw := signToken(t, "", testSecret, time.Now().Add(time.Hour))
	rr, _, _ := runAuth(t, "Bearer "+raw)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestSessionAuthRejectsUnsignedAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice.near"})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	rr, _, _ := runAuth(t, "Bearer "+raw)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
