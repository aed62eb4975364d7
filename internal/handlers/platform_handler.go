package handlers

import (
	"log/slog"
	"net/http"

	"github.com/neartasks/platform/internal/middleware"
	"github.com/neartasks/platform/internal/models"
	"github.com/neartasks/platform/internal/session"
	"github.com/neartasks/platform/internal/storage"
	"github.com/neartasks/platform/internal/wallet"
)

// PlatformHandler serves the platform-level reads (fee, ratings, account)
// and attachment uploads.
type PlatformHandler struct {
	Sessions *session.Manager
	Blobs    *storage.Client
	Logger   *slog.Logger
}

// GetFee handles GET /api/v1/platform/fee.
func (h *PlatformHandler) GetFee(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	pct, err := sess.Gateway.FetchPlatformFeePercentage(r.Context())
	if err != nil {
		writeTaxonomyErr(w, h.Logger, "get fee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint8{"platform_fee_percentage": pct})
}

// GetRating handles GET /api/v1/ratings/{account}. Zero means unrated.
func (h *PlatformHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	account := r.PathValue("account")
	if account == "" {
		http.Error(w, `{"error":"account is required"}`, http.StatusBadRequest)
		return
	}
	rating, err := sess.Gateway.FetchRating(r.Context(), account)
	if err != nil {
		writeTaxonomyErr(w, h.Logger, "get rating", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account_id": account, "rating": rating})
}

type accountResponse struct {
	AccountID   string `json:"account_id"`
	Rating      uint8  `json:"rating"`
	BalanceNEAR string `json:"balance_near,omitempty"`
}

// GetAccount handles GET /api/v1/account: the connected identity, its
// ledger rating, and — when the wallet bridge can report it — its balance.
func (h *PlatformHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	rating, err := sess.Gateway.FetchRating(r.Context(), sess.Identity)
	if err != nil {
		writeTaxonomyErr(w, h.Logger, "get account", err)
		return
	}
	resp := accountResponse{AccountID: sess.Identity, Rating: rating}
	if br, ok := sess.Signer.(wallet.BalanceReader); ok {
		yocto, err := br.AccountBalance(r.Context())
		if err != nil {
			h.Logger.Warn("balance read failed", "account", sess.Identity, "error", err)
		} else if near, err := models.FormatNEAR(yocto); err == nil {
			resp.BalanceNEAR = near
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Upload handles POST /api/v1/uploads: multipart files in, public URL out.
func (h *PlatformHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"error":"invalid multipart body"}`, http.StatusBadRequest)
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, `{"error":"no files selected"}`, http.StatusBadRequest)
		return
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, `{"error":"unreadable file"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		files = append(files, storage.File{Name: fh.Filename, Content: f})
	}

	url, err := h.Blobs.Upload(r.Context(), files)
	if err != nil {
		h.Logger.Error("upload", "account", sess.Identity, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upload failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *PlatformHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	identity := middleware.IdentityFromCtx(r.Context())
	if identity == "" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return nil
	}
	return h.Sessions.Get(identity)
}
