package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sunridge-camp/portal-api/internal/photos"
)

// PhotoStore uploads raw image data and returns the hosted URL.
type PhotoStore interface {
	Upload(ctx context.Context, bucket, id, b64 string) (string, error)
}

// resolvePhoto turns whatever a client sent in a photo field into a hosted
// URL: empty and already-hosted values pass through, base64 gets uploaded.
func resolvePhoto(ctx context.Context, store PhotoStore, bucket, value string) (string, error) {
	if value == "" || photos.IsURL(value) {
		return value, nil
	}

	url, err := store.Upload(ctx, bucket, uuid.NewString(), value)
	if err != nil {
		return "", fmt.Errorf("store.Upload -> %w", err)
	}

	return url, nil
}
