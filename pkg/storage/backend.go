// Package storage publishes analysis artifacts (CSV, JSON, Markdown) to
// a local directory or an S3 bucket behind one BlobStore interface.
package storage

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// BlobStore is the abstract artifact backend.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// FromDestination builds a store for an upload destination. An
// "s3://bucket" or "s3://bucket/prefix" URI selects S3 with ambient AWS
// credentials; anything else is a local directory. The returned prefix
// must be joined onto artifact keys by the caller.
func FromDestination(ctx context.Context, dest string) (BlobStore, string, error) {
	if bucket, prefix, ok := splitS3URI(dest); ok {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewS3Store(cfg, bucket), prefix, nil
	}
	return NewLocalStore(dest), "", nil
}

func splitS3URI(dest string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(dest, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), bucket != ""
}
