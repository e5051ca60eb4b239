// Package photos proxies parent-submitted photos to the hosted object store.
// Writers hand us either an already-hosted URL or raw base64; only the latter
// is uploaded.
package photos

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	BucketParents  = "parents"
	BucketCampers  = "campers"
	BucketContacts = "contacts"
	BucketPayments = "payment-screenshots"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// IsURL distinguishes already-hosted values from raw base64 needing upload.
func IsURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// Upload decodes base64 image data, stores it under bucket/id and returns the
// public URL. Data URI prefixes ("data:image/jpeg;base64,...") are accepted.
func (c *Client) Upload(ctx context.Context, bucket, id, b64 string) (string, error) {
	if idx := strings.Index(b64, ","); idx != -1 && strings.HasPrefix(b64, "data:") {
		b64 = b64[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("base64.Decode -> %w", err)
	}

	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("http.NewRequest -> %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", http.DetectContentType(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("c.http.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("photo upload returned %d: %s", resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, bucket, id), nil
}
