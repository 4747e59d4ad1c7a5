package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type m = map[string]any

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileFromStdin(t *testing.T) {
	out, err := execute(t, `{"index": "users", "where": [["age", ">=", 18]]}`, "compile", "--pretty=false")
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"range":{"age":{"gte":18}}}}`, strings.TrimSpace(out))
}

func TestCompileYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	doc := `
index: users
size: 3
where:
  - [status, active]
  - {type: exists, field: email, boolean: or}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "", "compile", path, "--params", "--index", "people")
	require.NoError(t, err)

	var params m
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, "people", params["index"])
	body := params["body"].(m)
	assert.Equal(t, float64(3), body["size"])
	should := body["query"].(m)["bool"].(m)["should"].([]any)
	assert.Len(t, should, 2)
}

func TestCompileRejectsBadDocument(t *testing.T) {
	_, err := execute(t, `{"where": [["a", "~~", 1]]}`, "compile")
	assert.Error(t, err)

	_, err = execute(t, `{"where": [`, "compile")
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info m
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

// stubTransport answers every call with resp.
type stubTransport struct {
	ops  []string
	resp map[string]any
}

func (s *stubTransport) do(op string) (map[string]any, error) {
	s.ops = append(s.ops, op)
	return s.resp, nil
}

func (s *stubTransport) Search(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("search")
}
func (s *stubTransport) Scroll(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("scroll")
}
func (s *stubTransport) Count(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("count")
}
func (s *stubTransport) Index(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("index")
}
func (s *stubTransport) Create(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("create")
}
func (s *stubTransport) Update(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("update")
}
func (s *stubTransport) Delete(context.Context, compiler.Params) (map[string]any, error) {
	return s.do("delete")
}
func (s *stubTransport) Ping(context.Context) error { return nil }
func (s *stubTransport) Engine() search.Engine      { return search.OpenSearch }

func TestRunSearchModes(t *testing.T) {
	tr := &stubTransport{resp: m{
		"count": 4,
		"hits": m{
			"total": m{"value": 4},
			"hits":  []any{m{"_id": "a", "_source": m{"n": 1}}},
		},
	}}
	exec := search.NewExecutor(tr)
	ctx := context.Background()

	out, err := runSearch(ctx, exec, query.NewRequest("idx"), searchMode{count: true})
	require.NoError(t, err)
	assert.Equal(t, m{"count": int64(4)}, out)

	out, err = runSearch(ctx, exec, query.NewRequest("idx"), searchMode{first: true})
	require.NoError(t, err)
	assert.Equal(t, "a", out.(search.Hit).ID())

	out, err = runSearch(ctx, exec, query.NewRequest("idx"), searchMode{page: 2, size: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out.(*search.Page).LastPage)

	out, err = runSearch(ctx, exec, query.NewRequest("idx"), searchMode{size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.(*search.Result).Total)

	assert.Equal(t, []string{"count", "search", "search", "search"}, tr.ops)
}

func TestReadDocumentDash(t *testing.T) {
	doc, err := readDocument("-", strings.NewReader("index: a\n"))
	require.NoError(t, err)
	assert.Equal(t, "a", doc["index"])
}
