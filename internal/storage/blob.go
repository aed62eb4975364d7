// Package storage is the off-chain attachment boundary: files go in, a
// content-addressed public URL comes out. The store itself is external.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const uploadTimeout = 120 * time.Second

// ErrUploadFailed is the single failure condition this boundary reports.
var ErrUploadFailed = errors.New("upload failed")

// File is one attachment to store.
type File struct {
	Name    string
	Content io.Reader
}

// Client uploads attachments to a web3.storage-style endpoint and derives
// the gateway URL from the returned content id.
type Client struct {
	baseURL    string
	token      string
	gatewayFmt string
	httpClient *http.Client
}

// NewClient returns a blob store client. gatewayFmt is a format string with
// one %s verb for the content id, e.g. "https://%s.ipfs.w3s.link".
func NewClient(baseURL, token, gatewayFmt string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		gatewayFmt: gatewayFmt,
		httpClient: &http.Client{Timeout: uploadTimeout},
	}
}

type uploadResponse struct {
	CID string `json:"cid"`
}

// Upload stores the files as one unit and returns their public URL.
func (c *Client) Upload(ctx context.Context, files []File) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no files", ErrUploadFailed)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		for _, f := range files {
			part, err := form.CreateFormFile("file", f.Name)
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: store returned status %d", ErrUploadFailed, resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.CID == "" {
		return "", fmt.Errorf("%w: malformed store response", ErrUploadFailed)
	}
	return fmt.Sprintf(c.gatewayFmt, out.CID), nil
}
