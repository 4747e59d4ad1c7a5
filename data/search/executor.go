package search

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/ctxutil"
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/logging/logger"
	"github.com/ncobase/esdsl/query"
	"github.com/ncobase/esdsl/types"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	tracerName      = "github.com/ncobase/esdsl/data/search"
)

// Option configures an Executor
type Option func(*Executor)

// WithCache caches search and count responses
func WithCache(c Cache) Option {
	return func(e *Executor) { e.cache = c }
}

// WithCollector reports every engine call to c
func WithCollector(c Collector) Option {
	return func(e *Executor) {
		if c != nil {
			e.collector = c
		}
	}
}

// WithIndexPrefix prefixes every index name as "<prefix>-<index>"
func WithIndexPrefix(prefix string) Option {
	return func(e *Executor) { e.prefix = prefix }
}

// WithLogger replaces the standard logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer replaces the global otel tracer
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Executor compiles requests and runs them through a Transport, reshaping
// the responses. It is safe for concurrent use.
type Executor struct {
	transport Transport
	cache     Cache
	collector Collector
	logger    *logger.Logger
	tracer    trace.Tracer
	prefix    string
}

// NewExecutor creates an executor over t
func NewExecutor(t Transport, opts ...Option) *Executor {
	e := &Executor{
		transport: t,
		collector: NoOpCollector{},
		logger:    logger.StdLogger(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewExecutorFromConfig builds the transport, breaker and cache named by
// cfg. Options given here override the configured ones.
func NewExecutorFromConfig(cfg *config.Search, opts ...Option) (*Executor, error) {
	if cfg == nil {
		return nil, ecode.Missing("data.search")
	}
	if err := cfg.Validate(); err != nil {
		return nil, ecode.Invalid("data.search", err.Error())
	}
	t, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	base := []Option{WithIndexPrefix(cfg.IndexPrefix)}
	if c := NewCache(cfg.Cache); c != nil {
		base = append(base, WithCache(c))
	}
	return NewExecutor(t, append(base, opts...)...), nil
}

// Engine returns the engine behind the transport
func (e *Executor) Engine() Engine {
	return e.transport.Engine()
}

// Ping checks the engine is reachable
func (e *Executor) Ping(ctx context.Context) error {
	return e.transport.Ping(ctx)
}

func (e *Executor) buildIndexName(index string) string {
	if e.prefix == "" || index == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", e.prefix, index)
}

// prepare copies r with the prefixed index name
func (e *Executor) prepare(r *query.Request) (*query.Request, error) {
	if r == nil {
		return nil, ecode.Invalid("request", ecode.FieldIsRequired("request"))
	}
	req := r.Clone()
	req.Index = e.buildIndexName(req.Index)
	return req, nil
}

// prepareDocument is prepare plus the checks shared by the write operations
func (e *Executor) prepareDocument(r *query.Request, id string, needID bool) (*query.Request, error) {
	req, err := e.prepare(r)
	if err != nil {
		return nil, err
	}
	if req.Index == "" {
		return nil, ecode.Invalid("index", ecode.FieldIsRequired("index"))
	}
	if needID && id == "" {
		return nil, ecode.Invalid("id", ecode.FieldIsRequired("id"))
	}
	return req, nil
}

type call func(ctx context.Context, p compiler.Params) (map[string]any, error)

func (e *Executor) run(ctx context.Context, op string, p compiler.Params, fn call, cacheable bool) (map[string]any, error) {
	ctx, _ = ctxutil.EnsureTraceID(ctx)
	engine := string(e.Engine())

	ctx, span := e.tracer.Start(ctx, "search."+op, trace.WithAttributes(
		attribute.String("db.system", engine),
		attribute.String("db.operation", op),
		attribute.String("search.index", p.Index()),
	))
	defer span.End()

	entry := e.logger.WithContextFields(ctx, logrus.Fields{
		logger.EngineKey: engine,
		logger.IndexKey:  p.Index(),
		"operation":      op,
	})
	if e.logger.IsLevelEnabled(logrus.DebugLevel) {
		if dsl, err := compiler.Render(p.Body(), false); err == nil {
			entry.WithField("dsl", string(dsl)).Debug("search request")
		}
	}

	var key string
	if cacheable && e.cache != nil {
		if k, err := CacheKey(op, p); err == nil {
			key = k
			if resp, ok := e.cached(ctx, entry, op, key); ok {
				span.SetAttributes(attribute.Bool("search.cache_hit", true))
				return resp, nil
			}
		}
	}

	start := time.Now()
	resp, err := fn(ctx, p)
	e.collect(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		entry.WithError(err).Errorf("%s failed after %s", op, time.Since(start))
		return nil, err
	}
	entry.Debugf("%s took %s", op, time.Since(start))

	if key != "" {
		e.store(ctx, entry, key, resp)
	}
	return resp, nil
}

func (e *Executor) cached(ctx context.Context, entry *logrus.Entry, op, key string) (map[string]any, bool) {
	data, err := e.cache.Get(ctx, key)
	if err != nil {
		entry.WithError(err).Warn("cache get failed")
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	resp, err := DecodeResponse(op, 200, false, bytes.NewReader(data))
	if err != nil {
		entry.WithError(err).Warn("cache entry unreadable")
		return nil, false
	}
	return resp, true
}

// store writes the response on a detached context so a caller that has
// already returned does not cancel the write.
func (e *Executor) store(ctx context.Context, entry *logrus.Entry, key string, resp map[string]any) {
	data, err := compiler.Render(resp, false)
	if err != nil {
		return
	}
	ctx, cancel := ctxutil.WithDetached(ctx, 0)
	defer cancel()
	if err := e.cache.Set(ctx, key, data); err != nil {
		entry.WithError(err).Warn("cache set failed")
	}
}

func (e *Executor) collect(op string, err error) {
	engine := string(e.Engine())
	e.collector.SearchQuery(engine, err)
	switch op {
	case "index", "create", "update", "delete":
		if err == nil {
			e.collector.SearchIndex(engine, op)
		}
	}
}

// Response runs a search, or continues a scroll when a scroll id is set,
// and returns the engine response untouched.
func (e *Executor) Response(ctx context.Context, r *query.Request) (map[string]any, error) {
	req, err := e.prepare(r)
	if err != nil {
		return nil, err
	}
	return e.response(ctx, req)
}

func (e *Executor) response(ctx context.Context, req *query.Request) (map[string]any, error) {
	if req.Scrolling() {
		return e.run(ctx, "scroll", compiler.ScrollParams(req), e.transport.Scroll, false)
	}
	return e.run(ctx, "search", compiler.SearchParams(req), e.transport.Search, req.Scroll == "")
}

// Get returns the flattened hits, total, aggregations and scroll id
func (e *Executor) Get(ctx context.Context, r *query.Request) (*Result, error) {
	req, err := e.prepare(r)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := e.response(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{
		Total:    total(resp),
		List:     hits(resp),
		Aggs:     aggregations(resp),
		ScrollID: scrollID(resp),
		Took:     time.Since(start),
		Engine:   e.Engine(),
	}, nil
}

// First returns the first hit, or nil when nothing matches
func (e *Executor) First(ctx context.Context, r *query.Request) (Hit, error) {
	req, err := e.prepare(r)
	if err != nil {
		return nil, err
	}
	req.Size = types.ToPointer(1)
	resp, err := e.response(ctx, req)
	if err != nil {
		return nil, err
	}
	list := hits(resp)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Paginate fetches one page. Page defaults to 1 and size to 10. With
// collapse set, the total counts distinct collapse values through an added
// cardinality aggregation.
func (e *Executor) Paginate(ctx context.Context, r *query.Request, page, size int) (*Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}
	req, err := e.prepare(r)
	if err != nil {
		return nil, err
	}
	req.From = types.ToPointer((page - 1) * size)
	req.Size = types.ToPointer(size)

	var alias string
	if req.Collapse != nil && req.Collapse.Field != "" {
		alias = req.Collapse.Field + "_cardinality"
		req.Aggs = append(req.Aggs, &query.Aggregation{
			Alias:  alias,
			Kind:   "cardinality",
			Params: query.Params{"field": req.Collapse.Field},
		})
	}

	resp, err := e.response(ctx, req)
	if err != nil {
		return nil, err
	}

	original := total(resp)
	pageTotal := original
	aggs := aggregations(resp)
	if alias != "" {
		if card, ok := aggs[alias].(map[string]any); ok {
			pageTotal = toInt64(card["value"])
		}
	}

	return &Page{
		Total:         pageTotal,
		OriginalTotal: original,
		PerPage:       size,
		CurrentPage:   page,
		LastPage:      int((pageTotal + int64(size) - 1) / int64(size)),
		List:          hits(resp),
		Aggs:          aggs,
	}, nil
}

// Count returns the number of documents matching the query
func (e *Executor) Count(ctx context.Context, r *query.Request) (int64, error) {
	req, err := e.prepare(r)
	if err != nil {
		return 0, err
	}
	resp, err := e.run(ctx, "count", compiler.CountParams(req), e.transport.Count, true)
	if err != nil {
		return 0, err
	}
	return toInt64(resp["count"]), nil
}

// Index stores doc, letting the engine assign an id when id is empty
func (e *Executor) Index(ctx context.Context, r *query.Request, doc map[string]any, id string) (map[string]any, error) {
	req, err := e.prepareDocument(r, id, false)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, "index", compiler.IndexParams(req, doc, id), e.transport.Index, false)
}

// Create stores doc under id, failing when the id exists
func (e *Executor) Create(ctx context.Context, r *query.Request, doc map[string]any, id string) (map[string]any, error) {
	req, err := e.prepareDocument(r, id, true)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, "create", compiler.CreateParams(req, doc, id), e.transport.Create, false)
}

// Update merges doc into the document with id
func (e *Executor) Update(ctx context.Context, r *query.Request, doc map[string]any, id string) (map[string]any, error) {
	req, err := e.prepareDocument(r, id, true)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, "update", compiler.UpdateParams(req, doc, id), e.transport.Update, false)
}

// Delete removes the document with id
func (e *Executor) Delete(ctx context.Context, r *query.Request, id string) (map[string]any, error) {
	req, err := e.prepareDocument(r, id, true)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, "delete", compiler.DeleteParams(req, id), e.transport.Delete, false)
}
