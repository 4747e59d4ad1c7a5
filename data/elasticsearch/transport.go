package elasticsearch

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
)

// Transport sends compiled params to Elasticsearch
type Transport struct {
	client *elasticsearch.Client
}

var _ search.Transport = (*Transport)(nil)

// New creates an Elasticsearch transport
func New(cfg *config.Elasticsearch) (*Transport, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ecode.Missing("elasticsearch.addresses")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Transport{client: es}, nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *elasticsearch.Client) *Transport {
	return &Transport{client: client}
}

// Client returns the underlying client
func (t *Transport) Client() *elasticsearch.Client {
	return t.client
}

// Engine returns search.Elasticsearch
func (t *Transport) Engine() search.Engine {
	return search.Elasticsearch
}

func (t *Transport) do(ctx context.Context, op string, req esapi.Request) (map[string]any, error) {
	res, err := req.Do(ctx, t.client)
	if err != nil {
		return nil, ecode.Wrap("elasticsearch "+op, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	return search.DecodeResponse("elasticsearch "+op, res.StatusCode, res.IsError(), res.Body)
}

func indices(index string) []string {
	if index == "" {
		return nil
	}
	return []string{index}
}

// Search runs _search; total hits are always tracked exactly
func (t *Transport) Search(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	scroll, err := search.KeepAlive(p.Scroll())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "search", esapi.SearchRequest{
		Index:          indices(p.Index()),
		Body:           body,
		Scroll:         scroll,
		TrackTotalHits: true,
	})
}

// Scroll continues a scroll
func (t *Transport) Scroll(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if p.ScrollID() == "" {
		return nil, ecode.Invalid("scroll_id", ecode.FieldIsRequired("scroll_id"))
	}
	scroll, err := search.KeepAlive(p.Scroll())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "scroll", esapi.ScrollRequest{
		ScrollID: p.ScrollID(),
		Scroll:   scroll,
	})
}

// Count runs _count
func (t *Transport) Count(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "count", esapi.CountRequest{
		Index: indices(p.Index()),
		Body:  body,
	})
}

// Index stores a document; an empty id lets Elasticsearch assign one
func (t *Transport) Index(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "index", esapi.IndexRequest{
		Index:      p.Index(),
		DocumentID: p.ID(),
		Body:       body,
	})
}

// Create stores a document that must not exist yet
func (t *Transport) Create(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "create", esapi.CreateRequest{
		Index:      p.Index(),
		DocumentID: p.ID(),
		Body:       body,
	})
}

// Update applies a partial document
func (t *Transport) Update(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "update", esapi.UpdateRequest{
		Index:      p.Index(),
		DocumentID: p.ID(),
		Body:       body,
	})
}

// Delete removes a document
func (t *Transport) Delete(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return t.do(ctx, "delete", esapi.DeleteRequest{
		Index:      p.Index(),
		DocumentID: p.ID(),
	})
}

// Ping checks the cluster answers
func (t *Transport) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, t.client)
	if err != nil {
		return ecode.Wrap("elasticsearch ping", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)
	if res.IsError() {
		return ecode.Wrap("elasticsearch ping", fmt.Errorf("status %s", res.Status()))
	}
	return nil
}
