package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
)

// Publish writes a set of named artifacts under one key prefix. Keys are
// written in sorted order so partial failures are reproducible.
func Publish(ctx context.Context, store BlobStore, prefix string, artifacts map[string][]byte) error {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := name
		if prefix != "" {
			key = path.Join(prefix, name)
		}
		if err := store.Put(ctx, key, artifacts[name]); err != nil {
			return fmt.Errorf("failed to publish %s: %w", name, err)
		}
	}
	return nil
}
