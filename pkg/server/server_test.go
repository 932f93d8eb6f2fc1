package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"modules/web/main.tf": `
variable "tags" {
  type = map(string)
}

resource "aws_instance" "web" {
  ami  = "ami-123456"
  tags = var.tags
}
`,
		"modules/db/main.tf": `
variable "tags" {
  type = map(string)
}

resource "aws_instance" "db" {
  ami = "ami-654321"
}
`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := analyzer.New(root, analyzer.WithLogger(logger))
	require.NoError(t, err)
	snap, err := a.Analyze(context.Background())
	require.NoError(t, err)

	ts := httptest.NewServer(New(snap, logger, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestIndexPage(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dependency-graph")
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	var out map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/health", &out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, float64(2), out["modules"])
}

func TestListModules(t *testing.T) {
	ts := testServer(t)
	var out struct {
		Modules []struct {
			Path      string `json:"path"`
			Resources int    `json:"resources"`
		} `json:"modules"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/modules", &out))
	require.Len(t, out.Modules, 2)
	assert.Equal(t, "modules/db", out.Modules[0].Path)
	assert.Equal(t, "modules/web", out.Modules[1].Path)
	assert.Equal(t, 1, out.Modules[0].Resources)
}

func TestModuleDetails(t *testing.T) {
	ts := testServer(t)
	var rep analyzer.ModuleReport
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/modules/modules/web", &rep))
	assert.Equal(t, "modules/web", rep.Name)
	assert.Equal(t, 1, rep.Summary.ResourcesCount)
	assert.True(t, rep.TagSummary.HasTagsVariable)
	assert.Empty(t, rep.TagSummary.Issues)

	var db analyzer.ModuleReport
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/modules/modules/db", &db))
	assert.Equal(t, 1, db.TagSummary.MissingTags)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts, "/api/modules/nope", nil))
}

func TestDependencies(t *testing.T) {
	ts := testServer(t)
	var out struct {
		Nodes []struct {
			ID    string `json:"id"`
			Group int    `json:"group"`
		} `json:"nodes"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/dependencies", &out))

	ids := make(map[string]int)
	for _, n := range out.Nodes {
		ids[n.ID] = n.Group
	}
	assert.Equal(t, 1, ids["modules/web"])
	assert.Equal(t, 1, ids["modules/db"])
}

func TestSimilar(t *testing.T) {
	ts := testServer(t)
	var out struct {
		Module    string                   `json:"module"`
		Threshold float64                  `json:"threshold"`
		Similar   []analyzer.SimilarModule `json:"similar"`
	}

	// Same variable set and resource type; db has no tag references so
	// the score lands between the default and a permissive threshold.
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/similar/modules/web?threshold=0.5", &out))
	require.Len(t, out.Similar, 1)
	assert.Equal(t, "modules/db", out.Similar[0].Path)
	assert.Equal(t, 0.5, out.Threshold)

	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/similar/modules/web?threshold=0.99", &out))
	assert.Empty(t, out.Similar)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts, "/api/similar/modules/web?threshold=abc", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts, "/api/similar/ghost", nil))
}
