package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
)

func fixtureSnapshot(t *testing.T) *analyzer.Snapshot {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"envs/prod/main.tf": `
variable "tags" {
  type = map(string)
}

module "network" {
  source = "../../modules/network"
  tags   = var.tags
}

resource "aws_instance" "bastion" {
  ami  = "ami-123456"
  tags = var.tags
}
`,
		"modules/network/main.tf": `
variable "vpc_tags" {
  type = map(string)
}

resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
  tags       = merge(var.vpc_tags, { Name = "main" })
}

resource "aws_route_table" "public" {
  vpc_id = aws_vpc.main.id
}
`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	a, err := analyzer.New(root,
		analyzer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestWriteCSVGolden(t *testing.T) {
	snap := fixtureSnapshot(t)

	var buf bytes.Buffer
	if err := WriteCSV(snap, &buf); err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t)
	g.Assert(t, "tag_analysis", buf.Bytes())
}

func TestBuildRows(t *testing.T) {
	snap := fixtureSnapshot(t)
	rows := BuildRows(snap)

	// One row per resource: bastion, the nested network pair, and the
	// same pair again for the standalone modules/network record.
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}

	first := rows[0]
	if first.FullResourceID != "aws_instance.bastion" || first.ModulePath != "envs/prod" {
		t.Errorf("first row = %+v", first)
	}
	if first.SubmoduleSource != "" {
		t.Errorf("top-level resource must have no provenance: %q", first.SubmoduleSource)
	}

	nested := rows[1]
	if nested.ModulePath != "envs/prod/network" {
		t.Errorf("nested path = %q", nested.ModulePath)
	}
	if nested.SubmoduleSource != "../../modules/network" {
		t.Errorf("nested provenance = %q", nested.SubmoduleSource)
	}
}

func TestWriteJSON(t *testing.T) {
	snap := fixtureSnapshot(t)

	var buf bytes.Buffer
	if err := WriteJSON(snap, &buf); err != nil {
		t.Fatal(err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("got %d rows, want 5", len(rows))
	}
}

func TestSummarize(t *testing.T) {
	snap := fixtureSnapshot(t)

	perModule, total := Summarize(snap)
	if len(perModule) != 2 {
		t.Fatalf("got %d module stats, want 2", len(perModule))
	}
	if total.Modules != 2 || total.Resources != 3 {
		t.Errorf("totals = %+v", total)
	}
	if total.Taggable != 3 || total.Tagged != 2 || total.Missing != 1 {
		t.Errorf("tag totals = %+v", total)
	}

	want := 2.0 / 3.0 * 100
	if got := total.CompliancePercent(); got != want {
		t.Errorf("compliance = %v, want %v", got, want)
	}
	if (Stats{}).CompliancePercent() != 0 {
		t.Error("empty stats must report zero compliance")
	}
}

func TestWriteMarkdown(t *testing.T) {
	snap := fixtureSnapshot(t)

	var buf bytes.Buffer
	if err := WriteMarkdown(snap, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Tag Compliance Summary",
		"| envs/prod | 1 | 1 | 1 | 0 |",
		"| modules/network | 2 | 2 | 1 | 1 |",
		"- Tag Compliance: 66.7%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}
