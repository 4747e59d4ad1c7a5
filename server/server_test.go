package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/ctxutil"
	"github.com/ncobase/esdsl/data/metrics"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/net/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type m = map[string]any

func init() {
	gin.SetMode(gin.TestMode)
}

// stubTransport answers every call with resp (or err) and keeps the last params.
type stubTransport struct {
	mu   sync.Mutex
	last compiler.Params
	op   string
	resp map[string]any
	err  error
}

func (s *stubTransport) do(op string, p compiler.Params) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.op, s.last = op, p
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubTransport) Search(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("search", p)
}
func (s *stubTransport) Scroll(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("scroll", p)
}
func (s *stubTransport) Count(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("count", p)
}
func (s *stubTransport) Index(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("index", p)
}
func (s *stubTransport) Create(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("create", p)
}
func (s *stubTransport) Update(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("update", p)
}
func (s *stubTransport) Delete(_ context.Context, p compiler.Params) (map[string]any, error) {
	return s.do("delete", p)
}
func (s *stubTransport) Ping(context.Context) error { return s.err }
func (s *stubTransport) Engine() search.Engine      { return search.Elasticsearch }

var searchResponse = m{
	"hits": m{
		"total": m{"value": 2},
		"hits": []any{
			m{"_index": "users", "_id": "1", "_score": 1.0, "_source": m{"name": "ann"}},
			m{"_index": "users", "_id": "2", "_score": 0.5, "_source": m{"name": "bob"}},
		},
	},
}

func newTestServer(t *testing.T, tr *stubTransport) (*Server, *metrics.SearchCollector) {
	t.Helper()
	collector := metrics.NewSearchCollector()
	var exec *search.Executor
	if tr != nil {
		exec = search.NewExecutor(tr, search.WithCollector(collector))
	}
	return New(nil, exec, collector, nil), collector
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) m {
	t.Helper()
	var out m
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCompileDSL(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/dsl", m{
		"index": "users",
		"size":  5,
		"where": []any{[]any{"status", "active"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, m{"term": m{"status": "active"}}, body["query"])
	assert.Equal(t, float64(5), body["size"])
}

func TestCompileDSLParams(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/dsl?params=true&pretty=true", m{
		"index": "users",
		"where": []any{[]any{"age", ">=", 18}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "\n  ")
	body := decode(t, rec)
	assert.Equal(t, "users", body["index"])
	assert.Equal(t, m{"query": m{"range": m{"age": m{"gte": float64(18)}}}}, body["body"])
}

func TestCompileDSLRejectsBadClause(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/dsl", m{"where": []any{[]any{"age", "~~", 1}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(resp.CodeInvalid), decode(t, rec)["code"])
}

func TestSearchGet(t *testing.T) {
	tr := &stubTransport{resp: searchResponse}
	s, collector := newTestServer(t, tr)

	rec := do(t, s, http.MethodPost, "/search/users", m{
		"query": m{"where": []any{[]any{"name", "ann"}}},
		"size":  2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["total"])
	list := body["list"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "ann", list[0].(m)["name"])

	assert.Equal(t, "search", tr.op)
	assert.Equal(t, "users", tr.last.Index())
	assert.Equal(t, 2, tr.last.Body().(compiler.Body)["size"])
	assert.Equal(t, int64(1), collector.GetStats().Engines["elasticsearch"].Queries)
}

func TestSearchPaginate(t *testing.T) {
	tr := &stubTransport{resp: searchResponse}
	s, _ := newTestServer(t, tr)

	rec := do(t, s, http.MethodPost, "/search/users", m{"page": 2, "size": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["current_page"])
	assert.Equal(t, float64(2), body["last_page"])
	assert.Equal(t, 1, tr.last.Body().(compiler.Body)["from"])
}

func TestSearchFirst(t *testing.T) {
	tr := &stubTransport{resp: searchResponse}
	s, _ := newTestServer(t, tr)

	rec := do(t, s, http.MethodPost, "/search/users", m{"first": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hit := decode(t, rec)["hit"].(m)
	assert.Equal(t, "1", hit["_id"])
}

func TestSearchValidatesPaging(t *testing.T) {
	s, _ := newTestServer(t, &stubTransport{resp: searchResponse})
	rec := do(t, s, http.MethodPost, "/search/users", m{"page": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(resp.CodeRequestErr), decode(t, rec)["code"])
}

func TestSearchEngineError(t *testing.T) {
	tr := &stubTransport{err: ecode.Wrap("search", errors.New("[500] boom"))}
	s, _ := newTestServer(t, tr)
	rec := do(t, s, http.MethodPost, "/search/users", m{})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSearchWithoutExecutor(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/search/users", m{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, float64(resp.CodeNotConfigured), decode(t, rec)["code"])
}

func TestCount(t *testing.T) {
	tr := &stubTransport{resp: m{"count": 7}}
	s, _ := newTestServer(t, tr)
	rec := do(t, s, http.MethodPost, "/count/users", m{"query": m{"where": []any{[]any{"a", 1}}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(7), decode(t, rec)["count"])
	assert.Equal(t, "count", tr.op)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubTransport{})
	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "elasticsearch", decode(t, rec)["engine"])

	s, _ = newTestServer(t, &stubTransport{err: errors.New("down")})
	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStats(t *testing.T) {
	tr := &stubTransport{resp: searchResponse}
	s, _ := newTestServer(t, tr)
	do(t, s, http.MethodPost, "/search/users", m{})

	rec := do(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	engines := decode(t, rec)["engines"].(m)
	assert.Contains(t, engines, "elasticsearch")
}

func TestTraceIDHeader(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(ctxutil.TraceIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get(ctxutil.TraceIDHeader))

	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get(ctxutil.TraceIDHeader))
}
