package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Transport sends compiled params to OpenSearch
type Transport struct {
	client *opensearchapi.Client
}

var _ search.Transport = (*Transport)(nil)

// New creates an OpenSearch transport
func New(cfg *config.OpenSearch) (*Transport, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ecode.Missing("opensearch.addresses")
	}

	// Configure transport with TLS options
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipTLS,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  cfg.Addresses,
				Username:   cfg.Username,
				Password:   cfg.Password,
				Transport:  transport,
				MaxRetries: cfg.MaxRetries,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Transport{client: client}, nil
}

// Client returns the underlying client
func (t *Transport) Client() *opensearchapi.Client {
	return t.client
}

// Engine returns search.OpenSearch
func (t *Transport) Engine() search.Engine {
	return search.OpenSearch
}

// request is a REST call in the shape opensearch.Client.Do expects
type request struct {
	method string
	path   string
	params url.Values
	body   io.Reader
}

// GetRequest implements opensearch.Request
func (r request) GetRequest() (*http.Request, error) {
	u := r.path
	if len(r.params) > 0 {
		u += "?" + r.params.Encode()
	}
	req, err := http.NewRequest(r.method, u, r.body)
	if err != nil {
		return nil, err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (t *Transport) do(ctx context.Context, op string, req request) (map[string]any, error) {
	res, err := t.client.Client.Do(ctx, req, nil)
	if err != nil {
		return nil, ecode.Wrap("opensearch "+op, err)
	}
	defer func(Body io.ReadCloser) {
		if Body != nil {
			_ = Body.Close()
		}
	}(res.Body)

	return search.DecodeResponse("opensearch "+op, res.StatusCode, res.IsError(), res.Body)
}

// path builds /<index>/<endpoint>/<id>, escaping index and id. Empty
// index and id are left out.
func path(index, endpoint, id string) string {
	var b strings.Builder
	if index != "" {
		b.WriteString("/" + url.PathEscape(index))
	}
	b.WriteString("/" + endpoint)
	if id != "" {
		b.WriteString("/" + url.PathEscape(id))
	}
	return b.String()
}

func requireID(p compiler.Params) error {
	if p.Index() == "" {
		return ecode.Invalid("index", ecode.FieldIsRequired("index"))
	}
	if p.ID() == "" {
		return ecode.Invalid("id", ecode.FieldIsRequired("id"))
	}
	return nil
}

// Search runs _search; total hits are always tracked exactly
func (t *Transport) Search(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	params := url.Values{"track_total_hits": []string{"true"}}
	if s := p.Scroll(); s != "" {
		if _, err := search.KeepAlive(s); err != nil {
			return nil, err
		}
		params.Set("scroll", s)
	}
	return t.do(ctx, "search", request{
		method: http.MethodPost,
		path:   path(p.Index(), "_search", ""),
		params: params,
		body:   body,
	})
}

// Scroll continues a scroll
func (t *Transport) Scroll(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if p.ScrollID() == "" {
		return nil, ecode.Invalid("scroll_id", ecode.FieldIsRequired("scroll_id"))
	}
	scroll := p.Scroll()
	if scroll == "" {
		scroll = "2m"
	}
	if _, err := search.KeepAlive(scroll); err != nil {
		return nil, err
	}
	body, err := search.EncodeBody(map[string]any{"scroll": scroll, "scroll_id": p.ScrollID()})
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "scroll", request{
		method: http.MethodPost,
		path:   "/_search/scroll",
		body:   body,
	})
}

// Count runs _count
func (t *Transport) Count(ctx context.Context, p compiler.Params) (map[string]any, error) {
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "count", request{
		method: http.MethodPost,
		path:   path(p.Index(), "_count", ""),
		body:   body,
	})
}

// Index stores a document; an empty id lets OpenSearch assign one
func (t *Transport) Index(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if p.Index() == "" {
		return nil, ecode.Invalid("index", ecode.FieldIsRequired("index"))
	}
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	method := http.MethodPost
	if p.ID() != "" {
		method = http.MethodPut
	}
	return t.do(ctx, "index", request{
		method: method,
		path:   path(p.Index(), "_doc", p.ID()),
		body:   body,
	})
}

// Create stores a document that must not exist yet
func (t *Transport) Create(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if err := requireID(p); err != nil {
		return nil, err
	}
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "create", request{
		method: http.MethodPut,
		path:   path(p.Index(), "_create", p.ID()),
		body:   body,
	})
}

// Update applies a partial document
func (t *Transport) Update(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if err := requireID(p); err != nil {
		return nil, err
	}
	body, err := search.EncodeBody(p.Body())
	if err != nil {
		return nil, err
	}
	return t.do(ctx, "update", request{
		method: http.MethodPost,
		path:   path(p.Index(), "_update", p.ID()),
		body:   body,
	})
}

// Delete removes a document
func (t *Transport) Delete(ctx context.Context, p compiler.Params) (map[string]any, error) {
	if err := requireID(p); err != nil {
		return nil, err
	}
	return t.do(ctx, "delete", request{
		method: http.MethodDelete,
		path:   path(p.Index(), "_doc", p.ID()),
	})
}

// Ping checks the cluster answers
func (t *Transport) Ping(ctx context.Context) error {
	res, err := t.client.Client.Do(ctx, request{method: http.MethodHead, path: "/"}, nil)
	if err != nil {
		return ecode.Wrap("opensearch ping", err)
	}
	if res.Body != nil {
		_ = res.Body.Close()
	}
	if res.IsError() {
		return ecode.Wrap("opensearch ping", fmt.Errorf("status %d", res.StatusCode))
	}
	return nil
}
