package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	if err := store.Put(ctx, "runs/2026/tag_analysis.csv", []byte("a,b\n")); err != nil {
		t.Fatal(err)
	}

	data, err := store.Get(ctx, "runs/2026/tag_analysis.csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("got %q", data)
	}
}

func TestLocalStoreList(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"runs/a/summary.md", "runs/b/summary.md", "other/x"} {
		if err := store.Put(ctx, key, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := store.List(ctx, "runs")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"runs/a/summary.md", "runs/b/summary.md"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	// Missing prefix is empty, not an error.
	keys, err = store.List(ctx, "absent")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("keys = %v, want none", keys)
	}
}

func TestSplitS3URI(t *testing.T) {
	cases := []struct {
		dest   string
		bucket string
		prefix string
		ok     bool
	}{
		{"s3://reports", "reports", "", true},
		{"s3://reports/audits/2026", "reports", "audits/2026", true},
		{"s3://reports/audits/", "reports", "audits", true},
		{"s3://", "", "", false},
		{"./out", "", "", false},
		{"/var/reports", "", "", false},
	}
	for _, tc := range cases {
		bucket, prefix, ok := splitS3URI(tc.dest)
		if bucket != tc.bucket || prefix != tc.prefix || ok != tc.ok {
			t.Errorf("splitS3URI(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.dest, bucket, prefix, ok, tc.bucket, tc.prefix, tc.ok)
		}
	}
}

func TestFromDestinationLocal(t *testing.T) {
	dir := t.TempDir()
	store, prefix, err := FromDestination(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "" {
		t.Errorf("prefix = %q", prefix)
	}
	local, ok := store.(*LocalStore)
	if !ok {
		t.Fatalf("store type = %T", store)
	}
	if local.Root != dir {
		t.Errorf("root = %q", local.Root)
	}
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	artifacts := map[string][]byte{
		"tag_analysis.csv": []byte("csv"),
		"summary.md":       []byte("md"),
	}
	if err := Publish(context.Background(), store, "audit/2026-08-26", artifacts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "audit", "2026-08-26", "summary.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "md" {
		t.Errorf("got %q", data)
	}
}
