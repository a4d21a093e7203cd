package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BlobStore is the remote object storage the report store writes through.
// Lookups are a two-step protocol: FindByPrefix resolves a stored object's
// download URL, Download retrieves its bytes. A missing object is reported
// via found=false, not an error.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) error
	FindByPrefix(ctx context.Context, prefix string) (downloadURL string, found bool, err error)
	Download(ctx context.Context, downloadURL string) ([]byte, error)
}

// maxBlobBytes bounds how much of a downloaded object is read.
const maxBlobBytes = 10 << 20

// VercelBlob talks to the Vercel Blob HTTP API.
type VercelBlob struct {
	apiURL string
	token  string
	client *http.Client
}

// NewVercelBlob creates a blob client against the given API base URL.
func NewVercelBlob(apiURL, token string) *VercelBlob {
	return &VercelBlob{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Put uploads data under the exact path, overwriting any previous object.
func (b *VercelBlob) Put(ctx context.Context, path string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.apiURL+"/"+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-add-random-suffix", "0")
	req.Header.Set("x-allow-overwrite", "1")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("blob upload returned status %d", resp.StatusCode)
	}
	return nil
}

type blobListResponse struct {
	Blobs []struct {
		URL      string `json:"url"`
		Pathname string `json:"pathname"`
	} `json:"blobs"`
}

// FindByPrefix lists objects under the prefix and returns the first match's
// download URL. An empty listing is a normal miss.
func (b *VercelBlob) FindByPrefix(ctx context.Context, prefix string) (string, bool, error) {
	listURL := b.apiURL + "/?prefix=" + url.QueryEscape(prefix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("blob listing returned status %d", resp.StatusCode)
	}

	var list blobListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", false, fmt.Errorf("failed to decode blob listing: %w", err)
	}
	if len(list.Blobs) == 0 {
		return "", false, nil
	}
	return list.Blobs[0].URL, true, nil
}

// Download fetches an object's bytes from its resolved download URL.
func (b *VercelBlob) Download(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("blob download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBlobBytes))
}
